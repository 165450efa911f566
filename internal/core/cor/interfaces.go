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

// Package cor (Chain of Responsibility) is the workflow backbone of the
// highlight pipeline. A workflow is a Chain of Commands executed in order
// against a shared Context; each command reads its input from the context,
// does one unit of work, and writes its output back for the next command.
// This file defines the interfaces; the Base* files carry the default
// implementations.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys the chain uses to pipe one command's output
// into the next command's input.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// Context is the shared state for one workflow execution: a property bag for
// command data, the collected errors, and the scratch files that need
// cleanup when the run ends.
type Context interface {
	// SetContext and GetContext manage the standard Go context carrying
	// cancellation and trace spans.
	SetContext(context context.Context)
	GetContext() context.Context

	// Add stores a value under key; it returns the Context for chaining.
	Add(key string, value interface{}) Context

	// Get retrieves a value, or nil when absent.
	Get(key string) interface{}

	// Remove deletes a key.
	Remove(key string)

	// AddError records a command failure under the command's name.
	AddError(key string, err error)

	// GetErrors returns everything recorded by AddError.
	GetErrors() map[string]error

	// FirstError returns one recorded error, or nil. Commands run
	// sequentially, so with the default stop-on-failure chain this is the
	// error that aborted the run.
	FirstError() error

	// HasErrors reports whether any command failed.
	HasErrors() bool

	// AddTempFile tracks a scratch path for best-effort removal in Close.
	AddTempFile(file string)
	GetTempFiles() []string

	// Close removes tracked scratch files. Deferred at workflow start;
	// removal failures are logged, never fatal.
	Close()
}

// Executable is anything with a single unit of work.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic, traceable step of a workflow.
type Command interface {
	Executable

	// GetName identifies the command in logs, traces, and error maps.
	GetName() string

	// GetInputParam and GetOutputParam name the context keys this command
	// reads from and writes to. They default to CtxIn/CtxOut so the chain
	// can pipe commands together.
	GetInputParam() string
	GetOutputParam() string

	// IsExecutable is the precondition check run before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other Commands, so chains nest.
type Chain interface {
	Command

	// ContinueOnFailure controls whether the chain keeps executing after a
	// command records an error. The default is to stop.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
