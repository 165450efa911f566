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
// workflow. This file defines the persistence command: it assembles the
// durable HighlightRun record from the run's results and streams it into
// BigQuery, where the analytics endpoints aggregate over it. Persistence
// failure does not fail the run; the deliverable already exists on disk, so
// a missing analytics row only gets a log line.
package commands

import (
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// RunPersistToBigQuery records a completed highlight run.
type RunPersistToBigQuery struct {
	cor.BaseCommand
	client  *bigquery.Client
	dataset string
	table   string
}

func NewRunPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string) *RunPersistToBigQuery {
	return &RunPersistToBigQuery{
		BaseCommand: cor.NewBaseCommand(name),
		client:      client,
		dataset:     dataset,
		table:       table,
	}
}

// IsExecutable requires a merged video to record; the persistence surface
// itself is optional, so a nil client just skips the step.
func (s *RunPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return s.client != nil && !context.HasErrors() && context.Get(KeyAssembled) != nil
}

// Execute builds the run record from the context and streams it in. The
// pipe value passes through untouched.
func (s *RunPersistToBigQuery) Execute(context cor.Context) {
	params := context.Get(KeyParams).(*RunParams)
	merged := context.Get(KeyAssembled).(*model.MediaAsset)

	run := &model.HighlightRun{
		RunId:          params.RunID,
		SourceFilename: params.SourceFilename,
		PlayerName:     params.PlayerName,
		TeamName:       params.TeamName,
		Genre:          params.Genre,
		Narrated:       params.Narrate,
		Language:       params.Language,
		OutputFile:     merged.LocalPath,
		CreatedAt:      time.Now().UTC(),
	}
	if set, ok := context.Get(KeyMoments).(*model.MomentSet); ok {
		run.MomentCount = len(set.Moments)
	}
	if clips, ok := context.Get(KeyClips).([]*model.ClipFile); ok {
		run.ClipCount = len(clips)
	}
	if final, ok := context.Get(KeyFinalVideo).(string); ok {
		run.OutputFile = final
	}
	if url, ok := context.Get(KeyArchiveURL).(string); ok {
		run.ArchiveURL = url
	}

	inserter := s.client.Dataset(s.dataset).Table(s.table).Inserter()
	if err := inserter.Put(context.GetContext(), run); err != nil {
		slog.Error("failed to persist highlight run",
			"command", s.GetName(),
			"run_id", run.RunId,
			"error", err)
		s.GetErrorCounter().Add(context.GetContext(), 1)
		return
	}
	s.GetSuccessCounter().Add(context.GetContext(), 1)
	slog.Info("highlight run persisted", "command", s.GetName(), "run_id", run.RunId)
}
