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

// Package parse_test exercises the JSON recovery chain against the malformed
// output shapes the generative models actually produce.
package parse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
	"github.com/diamond-district/go-highlight-reel/internal/core/parse"
)

const cleanMoments = `{"moments": [
  {"start_time": "0:12", "end_time": "0:27", "description": "two-run homer"},
  {"start_time": "1:05", "end_time": "1:18.5", "description": "diving catch"}
]}`

// Every corrupted variant must recover to the same MomentSet the clean JSON
// yields.
func TestDecodeMomentSetRecoversMalformedVariants(t *testing.T) {
	want, err := parse.DecodeMomentSet(cleanMoments)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(want.Moments))

	variants := map[string]string{
		"code fence":       "```json\n" + cleanMoments + "\n```",
		"bare fence":       "```\n" + cleanMoments + "\n```",
		"language tag":     "json\n" + cleanMoments,
		"embedded prose":   "Sure! Here are the highlight moments you asked for:\n" + cleanMoments + "\nLet me know if you need more.",
		"single quotes":    strings.ReplaceAll(cleanMoments, `"`, "'"),
		"escaped quotes":   strings.ReplaceAll(cleanMoments, `"`, `\"`),
		"fence plus prose": "```json\nThe moments are {\"moments\": [\n  {\"start_time\": \"0:12\", \"end_time\": \"0:27\", \"description\": \"two-run homer\"},\n  {\"start_time\": \"1:05\", \"end_time\": \"1:18.5\", \"description\": \"diving catch\"}\n]} as requested\n```",
	}
	for name, raw := range variants {
		got, err := parse.DecodeMomentSet(raw)
		assert.NoError(t, err, "variant %q", name)
		assert.Equal(t, want.Moments, got.Moments, "variant %q", name)
	}
}

func TestDecodeMomentSetRejectsWrongEnvelope(t *testing.T) {
	for name, raw := range map[string]string{
		"no moments key": `{"highlights": []}`,
		"not a mapping":  `[{"start_time": "0:12", "end_time": "0:27"}]`,
		"prose only":     "I could not find any highlights in this video.",
		"moments scalar": `{"moments": "none"}`,
	} {
		_, err := parse.DecodeMomentSet(raw)
		var parseErr *model.ExtractionParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", name)
	}
}

// A set that parses but carries a non-increasing interval fails validation
// outright; the recovery chain must not keep trying transforms on it.
func TestDecodeMomentSetInvalidIntervalIsTerminal(t *testing.T) {
	raw := `{"moments": [{"start_time": "1:10", "end_time": "0:50"}]}`
	_, err := parse.DecodeMomentSet(raw)
	assert.Error(t, err)
	var parseErr *model.ExtractionParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeMomentSetTruncatesDiagnostics(t *testing.T) {
	_, err := parse.DecodeMomentSet(strings.Repeat("x", 5000))
	assert.Error(t, err)
	assert.LessOrEqual(t, len(err.Error()), model.DiagnosticLimit+100)
}

const cleanCommentary = `[
  {"time_seconds": 0.0, "text": "Bottom of the fourth."},
  {"time_seconds": 6.5, "text": "That ball is gone!"}
]`

func TestDecodeCommentary(t *testing.T) {
	want, err := parse.DecodeCommentary(cleanCommentary)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(want))
	assert.Equal(t, 6.5, want[1].TimeSeconds)

	fenced := "```json\n" + cleanCommentary + "\n```"
	got, err := parse.DecodeCommentary(fenced)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeCommentaryRequiresBothFields(t *testing.T) {
	for name, raw := range map[string]string{
		"missing text":  `[{"time_seconds": 1.0}]`,
		"missing time":  `[{"text": "hello"}]`,
		"not an array":  `{"time_seconds": 1.0, "text": "hello"}`,
		"wrong types":   `[{"time_seconds": "early", "text": "hello"}]`,
	} {
		_, err := parse.DecodeCommentary(raw)
		var parseErr *model.CommentaryParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", name)
	}
}
