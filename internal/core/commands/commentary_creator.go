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
// workflow. This file defines the commentary creator: a second generative
// pass over the assembled reel that produces timestamped play-by-play
// narration in the requested language.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"text/template"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// CommentaryCreator asks the generative model for narration text over the
// assembled highlight reel.
type CommentaryCreator struct {
	cor.BaseCommand
	responder         cloud.GenerativeResponder
	template          *template.Template
	inputTokenCounter metric.Int64Counter
	outputTokenCount  metric.Int64Counter
	retryCounter      metric.Int64Counter
}

func NewCommentaryCreator(name string, responder cloud.GenerativeResponder, tmpl *template.Template) *CommentaryCreator {
	out := &CommentaryCreator{
		BaseCommand: cor.NewBaseCommand(name),
		responder:   responder,
		template:    tmpl,
	}
	out.inputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCount, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	out.retryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.retry", name))
	return out
}

// GenerateParams substitutes the narration language and the few-shot example
// into the prompt template.
func (c *CommentaryCreator) GenerateParams(context cor.Context) map[string]interface{} {
	params := context.Get(KeyParams).(*RunParams)
	example, _ := json.Marshal(model.GetExampleCommentary())
	return map[string]interface{}{
		"LANGUAGE":     params.Language,
		"EXAMPLE_JSON": string(example),
	}
}

// Execute sends the prompt with the re-ingested reel reference. The raw
// response text goes to the parsing command.
func (c *CommentaryCreator) Execute(context cor.Context) {
	handle := context.Get(c.GetInputParam()).(*model.RemoteUploadHandle)

	var prompt bytes.Buffer
	if err := c.template.Execute(&prompt, c.GenerateParams(context)); err != nil {
		context.AddError(c.GetName(), fmt.Errorf("rendering commentary prompt: %w", err))
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
		context.AddError(c.GetName(), fmt.Errorf("commentary request failed: %w", err))
		return
	}
	context.Add(c.GetOutputParam(), out)
}
