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

// Package model defines the core data structures for the highlight pipeline.
// This file holds the persistent record of a completed highlight run. One row
// is written per /analyze request; the analytics endpoints aggregate over
// these rows.
package model

import "time"

// HighlightRun is the durable record of one pipeline execution. Intermediate
// artifacts are deleted at the end of a run, so this row is the only trace a
// request leaves behind.
type HighlightRun struct {
	RunId          string    `json:"run_id" bigquery:"run_id"`
	SourceFilename string    `json:"source_filename" bigquery:"source_filename"`
	PlayerName     string    `json:"player_name" bigquery:"player_name"`
	TeamName       string    `json:"team_name" bigquery:"team_name"`
	Genre          string    `json:"genre" bigquery:"genre"`
	MomentCount    int       `json:"moment_count" bigquery:"moment_count"`
	ClipCount      int       `json:"clip_count" bigquery:"clip_count"`
	Narrated       bool      `json:"narrated" bigquery:"narrated"`
	Language       string    `json:"language" bigquery:"language"`
	OutputFile     string    `json:"output_file" bigquery:"output_file"`
	ArchiveURL     string    `json:"archive_url,omitempty" bigquery:"archive_url"`
	CreatedAt      time.Time `json:"created_at" bigquery:"created_at"`
}
