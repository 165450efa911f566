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
// workflow. This file defines the completion notifier: when a Pub/Sub topic
// is configured, a small JSON event announces each finished run so
// downstream consumers (editorial tools, cache warmers) can react without
// polling the service. Like persistence, notification is best-effort.
package commands

import (
	"encoding/json"
	"log/slog"

	"cloud.google.com/go/pubsub"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// CompletionEvent is the payload published for every finished run.
type CompletionEvent struct {
	RunID          string `json:"run_id"`
	SourceFilename string `json:"source_filename"`
	OutputFile     string `json:"output_file"`
	ArchiveURL     string `json:"archive_url,omitempty"`
	Narrated       bool   `json:"narrated"`
}

// CompletionNotifier publishes a highlight.completed event for the run.
type CompletionNotifier struct {
	cor.BaseCommand
	topic *pubsub.Topic
}

func NewCompletionNotifier(name string, topic *pubsub.Topic) *CompletionNotifier {
	return &CompletionNotifier{
		BaseCommand: cor.NewBaseCommand(name),
		topic:       topic,
	}
}

// IsExecutable requires a configured topic and a finished video.
func (c *CompletionNotifier) IsExecutable(context cor.Context) bool {
	return c.topic != nil && !context.HasErrors() && context.Get(KeyAssembled) != nil
}

// Execute publishes the completion event and waits for the server ack.
func (c *CompletionNotifier) Execute(context cor.Context) {
	params := context.Get(KeyParams).(*RunParams)
	merged := context.Get(KeyAssembled).(*model.MediaAsset)

	event := CompletionEvent{
		RunID:          params.RunID,
		SourceFilename: params.SourceFilename,
		OutputFile:     merged.LocalPath,
		Narrated:       params.Narrate,
	}
	if final, ok := context.Get(KeyFinalVideo).(string); ok {
		event.OutputFile = final
	}
	if url, ok := context.Get(KeyArchiveURL).(string); ok {
		event.ArchiveURL = url
	}

	payload, err := json.Marshal(event)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		return
	}

	result := c.topic.Publish(context.GetContext(), &pubsub.Message{Data: payload})
	if _, err := result.Get(context.GetContext()); err != nil {
		slog.Warn("failed to publish completion event",
			"command", c.GetName(),
			"run_id", params.RunID,
			"error", err)
		c.GetErrorCounter().Add(context.GetContext(), 1)
		return
	}
	c.GetSuccessCounter().Add(context.GetContext(), 1)
}
