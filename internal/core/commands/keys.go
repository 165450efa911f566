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
// workflow. This file defines the shared context keys the commands use to
// publish results past the CtxIn/CtxOut pipe, plus the per-request
// parameters the handler seeds the context with.
package commands

// Context keys for values that outlive a single pipe hop. The main data flow
// still runs through CtxIn/CtxOut; these keys exist for the commands and the
// handler that need to look back at earlier results.
const (
	KeyParams        = "run.params"
	KeyScratchDir    = "run.scratch_dir"
	KeySourceAsset   = "media.source"
	KeyRemoteHandles = "media.remote_handles"
	KeyMoments       = "extract.moments"
	KeyClips         = "render.clips"
	KeyAssembled     = "assembly.output"
	KeyCommentary    = "narration.commentary"
	KeyAudioFile     = "narration.audio"
	KeyFinalVideo    = "narration.final"
	KeyArchiveURL    = "archive.url"
)

// RunParams carries the request-scoped inputs of one highlight run. The
// handler validates them (including the voice pair when narration is on)
// before the workflow starts.
type RunParams struct {
	RunID          string
	SourceFilename string
	PlayerName     string
	TeamName       string
	Genre          string
	Narrate        bool
	Language       string
	Gender         string
}

// CriteriaSentinel stands in for any search criterion the caller left blank,
// so the prompt always names all three criteria explicitly.
const CriteriaSentinel = "not specified"

// Criterion returns v, or the sentinel when v is blank.
func Criterion(v string) string {
	if v == "" {
		return CriteriaSentinel
	}
	return v
}
