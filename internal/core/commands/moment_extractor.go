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

// Package commands holds the concrete pipeline steps of the highlight
// workflow. This file defines the moment-extraction command: a single
// multi-modal request that asks the model to watch the ingested video and
// return the highlight intervals matching the caller's criteria.
//
// The prompt is a Go template carrying three criteria (player, team, genre)
// and a few-shot JSON example of the expected envelope. Criteria the caller
// left blank are filled with an explicit "not specified" sentinel so the
// model never sees an empty slot. The raw model text goes to the output
// param; the next command runs it through the JSON recovery chain.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// MomentExtractor asks the generative model for the highlight intervals of
// an ingested video.
type MomentExtractor struct {
	cor.BaseCommand
	responder         cloud.GenerativeResponder
	template          *template.Template
	inputTokenCounter metric.Int64Counter
	outputTokenCount  metric.Int64Counter
	retryCounter      metric.Int64Counter
}

// NewMomentExtractor builds the extraction command around a prompt template
// and the rate-limited model wrapper.
func NewMomentExtractor(name string, responder cloud.GenerativeResponder, tmpl *template.Template) *MomentExtractor {
	out := &MomentExtractor{
		BaseCommand: cor.NewBaseCommand(name),
		responder:   responder,
		template:    tmpl,
	}
	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCount, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	out.retryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.retry", name))
	return out
}

// GenerateParams assembles the template substitutions from the run params.
func (c *MomentExtractor) GenerateParams(context cor.Context) map[string]interface{} {
	params := context.Get(KeyParams).(*RunParams)
	example, _ := json.Marshal(model.GetExampleMomentSet())
	return map[string]interface{}{
		"PLAYER_NAME":  Criterion(params.PlayerName),
		"TEAM_NAME":    Criterion(params.TeamName),
		"GENRE":        Criterion(params.Genre),
		"EXAMPLE_JSON": string(example),
	}
}

// Execute renders the prompt and sends it with the remote file reference in
// one request. The raw response text is handed to the parsing command.
func (c *MomentExtractor) Execute(context cor.Context) {
	handle := context.Get(c.GetInputParam()).(*model.RemoteUploadHandle)

	var prompt bytes.Buffer
	if err := c.template.Execute(&prompt, c.GenerateParams(context)); err != nil {
		context.AddError(c.GetName(), fmt.Errorf("rendering extraction prompt: %w", err))
		return
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt.String()},
			{FileData: &genai.FileData{FileURI: handle.URI, MIMEType: handle.MIMEType}},
		},
	}}

	out, err := cloud.GenerateMultiModalResponse(
		context.GetContext(),
		c.inputTokenCounter, c.outputTokenCount, c.retryCounter,
		0, c.responder, contents)
	if err != nil {
		context.AddError(c.GetName(), fmt.Errorf("moment extraction request failed: %w", err))
		return
	}
	context.Add(c.GetOutputParam(), out)
}
