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
// This file holds the error taxonomy shared by every pipeline stage. Each
// failure mode gets its own type so the HTTP layer can map errors to status
// codes with errors.As instead of string matching.
package model

import "fmt"

// DiagnosticLimit bounds how much raw model output an error message may carry.
// Model responses can be arbitrarily large; error payloads must not be.
const DiagnosticLimit = 500

// Truncate clips s to DiagnosticLimit runes for inclusion in error messages.
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= DiagnosticLimit {
		return s
	}
	return string(r[:DiagnosticLimit])
}

// NotFoundError reports a local file that the caller referenced but that does
// not exist in the input scratch folder.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// RemoteProcessingError reports that the inference file service accepted an
// upload but resolved its processing state to FAILED.
type RemoteProcessingError struct {
	Name   string
	Reason string
}

func (e *RemoteProcessingError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("remote processing failed for %q", e.Name)
	}
	return fmt.Sprintf("remote processing failed for %q: %s", e.Name, e.Reason)
}

// ExtractionParseError reports that the moment-extraction response could not
// be recovered into a MomentSet by any transform in the recovery chain. Raw
// carries the cleaned (and truncated) model output for prompt debugging.
type ExtractionParseError struct {
	Raw string
}

func (e *ExtractionParseError) Error() string {
	return fmt.Sprintf("unable to parse moments from model output: %s", Truncate(e.Raw))
}

// CommentaryParseError is the narration-stage counterpart of
// ExtractionParseError.
type CommentaryParseError struct {
	Raw string
}

func (e *CommentaryParseError) Error() string {
	return fmt.Sprintf("unable to parse commentary from model output: %s", Truncate(e.Raw))
}

// EmptyTimelineError reports that no clips survived rendering, leaving the
// assembler with nothing to concatenate.
type EmptyTimelineError struct{}

func (e *EmptyTimelineError) Error() string {
	return "no clips were rendered; nothing to assemble"
}

// ReadError reports that the first clip of an assembly could not produce a
// single frame, so the output frame rate and dimensions cannot be determined.
type ReadError struct {
	Path string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read first clip: %s", e.Path)
}

// RenderError reports a decode or encode failure while cutting segments or
// validating clips for assembly.
type RenderError struct {
	Path   string
	Detail string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %s: %s", e.Path, e.Detail)
}

// UnsupportedVoiceError reports a language/gender pair outside the closed
// voice table. It is raised before any synthesis call is made.
type UnsupportedVoiceError struct {
	Language string
	Gender   string
}

func (e *UnsupportedVoiceError) Error() string {
	return fmt.Sprintf("no voice configured for language %q gender %q", e.Language, e.Gender)
}

// MuxError reports a non-zero exit from the external muxing tool. Output
// carries the tool's diagnostic stream.
type MuxError struct {
	Output string
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("mux failed: %s", Truncate(e.Output))
}
