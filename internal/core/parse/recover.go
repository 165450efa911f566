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

// Package parse recovers structured data from free-form generative model
// output. The models are instructed to return pure JSON but routinely wrap it
// in code fences, prefix a language tag, single-quote string literals, or
// embed the payload in prose. Rather than one heroic regex, recovery is an
// ordered list of pure transforms; each candidate is applied to the cleaned
// text independently and the first one whose output deserializes to the
// expected shape wins. Preserving the whole chain is what makes the pipeline
// usable in practice.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// Transform is a pure string rewrite applied to model output before a parse
// attempt. Transforms never fail; a bad rewrite simply fails to parse and the
// chain moves on.
type Transform func(string) string

// transforms is the ordered fallback chain. Identity goes first so clean JSON
// never pays for recovery.
var transforms = []Transform{
	func(s string) string { return s },
	SliceBrackets,
	NormalizeQuotes,
	StripEscapes,
}

// StripFences removes triple-backtick code fences and an optional leading
// "json" language tag, then trims surrounding whitespace. It is applied once
// up front; the result is the "cleaned" text every other transform starts
// from, and the text quoted in parse-failure diagnostics.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}

// SliceBrackets cuts from the first '[' or '{' to the last matching close
// bracket, recovering JSON embedded in prose.
func SliceBrackets(s string) string {
	open := strings.IndexAny(s, "[{")
	if open < 0 {
		return s
	}
	var closer byte = ']'
	if s[open] == '{' {
		closer = '}'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= open {
		return s
	}
	return s[open : end+1]
}

// NormalizeQuotes rewrites single-quoted literals to double-quoted ones.
func NormalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `"`)
}

// StripEscapes removes backslash escape characters the model sometimes
// sprinkles over otherwise valid JSON.
func StripEscapes(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}

// DecodeMomentSet runs the recovery chain over raw model output and returns
// the first candidate that deserializes to the exact {"moments": [...]}
// envelope. Interval validation happens after a successful parse; a set with
// a non-increasing interval is rejected outright, not retried, since the
// shape was already correct.
func DecodeMomentSet(raw string) (*model.MomentSet, error) {
	cleaned := StripFences(raw)
	for _, t := range transforms {
		set, ok := tryMomentSet(t(cleaned))
		if !ok {
			continue
		}
		if err := set.Validate(); err != nil {
			return nil, err
		}
		return set, nil
	}
	return nil, &model.ExtractionParseError{Raw: cleaned}
}

// tryMomentSet attempts a single strict parse: a JSON mapping that contains a
// "moments" key holding a sequence. Anything else fails the attempt.
func tryMomentSet(candidate string) (*model.MomentSet, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &envelope); err != nil {
		return nil, false
	}
	momentsRaw, found := envelope["moments"]
	if !found {
		return nil, false
	}
	var moments []model.Moment
	if err := json.Unmarshal(momentsRaw, &moments); err != nil {
		return nil, false
	}
	return &model.MomentSet{Moments: moments}, true
}

// DecodeCommentary runs the same recovery chain over a narration response,
// validating that the top-level value is a sequence and that every entry is a
// mapping carrying both time_seconds and text.
func DecodeCommentary(raw string) ([]model.CommentaryEntry, error) {
	cleaned := StripFences(raw)
	for _, t := range transforms {
		entries, ok := tryCommentary(t(cleaned))
		if !ok {
			continue
		}
		return entries, nil
	}
	return nil, &model.CommentaryParseError{Raw: cleaned}
}

func tryCommentary(candidate string) ([]model.CommentaryEntry, bool) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, false
	}
	entries := make([]model.CommentaryEntry, 0, len(items))
	for _, item := range items {
		tsRaw, hasTime := item["time_seconds"]
		textRaw, hasText := item["text"]
		if !hasTime || !hasText {
			return nil, false
		}
		var entry model.CommentaryEntry
		if err := json.Unmarshal(tsRaw, &entry.TimeSeconds); err != nil {
			return nil, false
		}
		if err := json.Unmarshal(textRaw, &entry.Text); err != nil {
			return nil, false
		}
		entries = append(entries, entry)
	}
	return entries, true
}
