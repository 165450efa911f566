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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for the external collaborators:
// the generative inference service, the speech synthesizer, and the optional
// GCP persistence/notification surfaces.
//
// This file centralizes the configuration structs. Configuration is explicit
// and constructed once at startup; no component reads ambient globals.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings disables the content safety blocks for all harm
// categories. Game footage prompts are trusted input; a blocked response
// would otherwise surface as an opaque parse failure downstream.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Storage configures the local scratch folders and the optional archive
// bucket for final deliverables.
type Storage struct {
	InputFolder      string `toml:"input_folder"`        // Where uploaded source videos land.
	OutputFolder     string `toml:"output_folder"`       // Where assembled/final videos are written.
	ArchiveBucket    string `toml:"archive_bucket"`      // Optional GCS bucket for final videos; empty disables archiving.
	SweepSchedule    string `toml:"sweep_schedule"`      // Cron spec for the scratch sweeper (e.g. "@every 1h").
	MaxScratchAgeMin int    `toml:"max_scratch_age_min"` // Scratch dirs older than this are swept.
}

// GenerativeModel configures the Gemini model used for moment extraction and
// commentary generation.
type GenerativeModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // Requests per second.
}

// Ingestion bounds the remote file-service readiness poll. The poll is a
// blocking wait inside the request, so both the interval and the attempt
// ceiling are explicit.
type Ingestion struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	MaxPollAttempts     int `toml:"max_poll_attempts"`
}

// Codec configures the external media toolchain.
type Codec struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

// BigQueryDataSource names the dataset and table where highlight runs are
// persisted for the analytics endpoints.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`
	RunsTable   string `toml:"runs_table"`
}

// PromptTemplates holds the Go templates for the two generative calls.
type PromptTemplates struct {
	MomentsPrompt    string `toml:"moments"`
	CommentaryPrompt string `toml:"commentary"`
}

// LeagueAPI points at the read-only statistics collaborator.
type LeagueAPI struct {
	BaseURL     string `toml:"base_url"`
	LogoURL     string `toml:"logo_url"`
	HeadshotURL string `toml:"headshot_url"`
}

// Config is the top-level aggregate loaded from the TOML files and handed to
// each component at construction time.
type Config struct {
	Application struct {
		Name            string `toml:"name"`
		Port            int    `toml:"port"`
		GoogleProjectId string `toml:"google_project_id"`
		CompletionTopic string `toml:"completion_topic"` // Optional Pub/Sub topic for run-completed events.
		SignerEmail     string `toml:"signer_service_account_email"`
	} `toml:"application"`
	Storage            Storage            `toml:"storage"`
	Generative         GenerativeModel    `toml:"generative"`
	Ingestion          Ingestion          `toml:"ingestion"`
	Codec              Codec              `toml:"codec"`
	BigQueryDataSource BigQueryDataSource `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates    `toml:"prompt_templates"`
	LeagueAPI          LeagueAPI          `toml:"league_api"`
}

// NewConfig returns a Config with workable defaults for anything the TOML
// files leave unset.
func NewConfig() *Config {
	c := &Config{}
	c.Application.Port = 8080
	c.Storage.InputFolder = "uploaded_videos"
	c.Storage.OutputFolder = "output_videos"
	c.Storage.SweepSchedule = "@every 1h"
	c.Storage.MaxScratchAgeMin = 120
	c.Ingestion.PollIntervalSeconds = 10
	c.Ingestion.MaxPollAttempts = 60
	return c
}
