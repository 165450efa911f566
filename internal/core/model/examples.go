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
// This file provides factory functions for hardcoded example instances used
// for few-shot prompting. Embedding a concrete example of the desired JSON
// shape in the prompt makes the model's output markedly more parsable.
package model

// GetExampleMomentSet returns a sample MomentSet used as the few-shot example
// in the moment-extraction prompt.
func GetExampleMomentSet() *MomentSet {
	return &MomentSet{
		Moments: []Moment{
			{
				StartTime:   "0:12",
				EndTime:     "0:27",
				Description: "Smith crushes a two-run homer over the left field wall.",
			},
			{
				StartTime:   "1:05",
				EndTime:     "1:18.5",
				Description: "Diving catch in center field robs a base hit.",
			},
		},
	}
}

// GetExampleCommentary returns a sample commentary track used as the few-shot
// example in the narration prompt.
func GetExampleCommentary() []CommentaryEntry {
	return []CommentaryEntry{
		{TimeSeconds: 0.0, Text: "Bottom of the fourth, and the crowd is on its feet."},
		{TimeSeconds: 6.5, Text: "Smith turns on the fastball, and that ball is gone!"},
	}
}
