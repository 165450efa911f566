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
// This file holds the transient objects that flow through a single request:
// the uploaded source asset, its remote inference handle, the moments the
// model identifies, the clips cut from them, and the narration commentary.
// None of these are persisted; the durable record of a run lives in
// HighlightRun (see run.go).
package model

// ProcessingState mirrors the remote file service's readiness lifecycle.
type ProcessingState string

const (
	StatePending    ProcessingState = "PENDING"
	StateProcessing ProcessingState = "PROCESSING"
	StateReady      ProcessingState = "READY"
	StateFailed     ProcessingState = "FAILED"
)

// MediaAsset is a video file on local scratch storage. Probe fields (frame
// rate, frame count, dimensions) are filled lazily on first decode and are
// read-only afterwards.
type MediaAsset struct {
	LocalPath        string  `json:"local_path"`
	OriginalFilename string  `json:"original_filename"`
	FrameRate        float64 `json:"frame_rate,omitempty"`
	FrameCount       int64   `json:"frame_count,omitempty"`
	Width            int     `json:"width,omitempty"`
	Height           int     `json:"height,omitempty"`
}

// RemoteUploadHandle is the remote-side registration of a MediaAsset with the
// inference file service. It is owned by the ingestion stage, lives for one
// request, and is never reused across requests.
type RemoteUploadHandle struct {
	Name     string          `json:"name"`
	URI      string          `json:"uri"`
	MIMEType string          `json:"mime_type"`
	State    ProcessingState `json:"state"`
}

// Moment is a single model-identified highlight interval. Start and end are
// timecode strings in the model's M:SS form.
type Moment struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description,omitempty"`
}

// Seconds returns the moment's interval converted to seconds. The interval
// must be strictly increasing; violating intervals are rejected, never
// clamped.
func (m *Moment) Seconds() (start, end float64, err error) {
	if start, err = ParseTimecode(m.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimecode(m.EndTime); err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, &ExtractionParseError{
			Raw: "moment end_time " + m.EndTime + " is not after start_time " + m.StartTime,
		}
	}
	return start, end, nil
}

// MomentSet is the validated envelope returned by moment extraction. The
// moment order is the model's narrative order and is preserved end to end.
type MomentSet struct {
	Moments []Moment `json:"moments"`
}

// Validate checks every interval in the set. The set is rejected as a whole
// if any interval fails to parse or is not strictly increasing.
func (s *MomentSet) Validate() error {
	for i := range s.Moments {
		if _, _, err := s.Moments[i].Seconds(); err != nil {
			return err
		}
	}
	return nil
}

// ClipFile is one rendered segment, tied to its Moment by ordinal index.
type ClipFile struct {
	Path       string `json:"path"`
	Ordinal    int    `json:"ordinal"`
	FrameCount int64  `json:"frame_count"`
}

// CommentaryEntry is a single timestamped line of generated narration text,
// prior to speech synthesis. Entries keep the order the model returned them;
// synthesis joins their text and is agnostic to time order.
type CommentaryEntry struct {
	TimeSeconds float64 `json:"time_seconds"`
	Text        string  `json:"text"`
}
