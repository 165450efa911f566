// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cor

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const meterScope = "github.com/diamond-district/go-highlight-reel"

// BaseCommand carries the name, context wiring, and telemetry every pipeline
// command shares. Concrete commands embed it and implement Execute.
type BaseCommand struct {
	Name            string
	InputParamName  string
	OutputParamName string
	Tracer          trace.Tracer
	Meter           metric.Meter
	SuccessCounter  metric.Int64Counter
	ErrorCounter    metric.Int64Counter
}

// NewBaseCommand builds a command skeleton with its tracer, meter, and
// success/error counters registered under the command's name. The command
// reads CtxIn and writes CtxOut unless the caller overrides the param names.
func NewBaseCommand(name string) BaseCommand {
	tracer := otel.Tracer(meterScope)
	meter := otel.Meter(meterScope)

	successCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s.success", name),
		metric.WithDescription(fmt.Sprintf("number of successful %s executions", name)))
	if err != nil {
		slog.Error("failed to create success counter", "command", name, "error", err)
	}
	errorCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s.error", name),
		metric.WithDescription(fmt.Sprintf("number of failed %s executions", name)))
	if err != nil {
		slog.Error("failed to create error counter", "command", name, "error", err)
	}

	return BaseCommand{
		Name:            name,
		InputParamName:  CtxIn,
		OutputParamName: CtxOut,
		Tracer:          tracer,
		Meter:           meter,
		SuccessCounter:  successCounter,
		ErrorCounter:    errorCounter,
	}
}

func (b *BaseCommand) GetName() string {
	return b.Name
}

func (b *BaseCommand) GetInputParam() string {
	return b.InputParamName
}

func (b *BaseCommand) GetOutputParam() string {
	return b.OutputParamName
}

// IsExecutable requires the input value to be present. Error-state handling
// belongs to the chain, which stops or skips per its failure policy.
func (b *BaseCommand) IsExecutable(context Context) bool {
	return context != nil && context.Get(b.InputParamName) != nil
}

func (b *BaseCommand) GetTracer() trace.Tracer {
	return b.Tracer
}

func (b *BaseCommand) GetMeter() metric.Meter {
	return b.Meter
}

func (b *BaseCommand) GetSuccessCounter() metric.Int64Counter {
	return b.SuccessCounter
}

func (b *BaseCommand) GetErrorCounter() metric.Int64Counter {
	return b.ErrorCounter
}
