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
// workflow. This file defines the speech synthesis command: it resolves the
// requested narration voice, joins all commentary lines into a single
// passage, and renders it in one synthesis request.
//
// The voice pair is resolved before the request is built, so an unsupported
// language or gender can never reach the network. The commentary texts join
// with single spaces in the order the model produced them; timestamps order
// the transcript shown to the caller, not the audio.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// SpeechSynthesizer renders the narration audio track for the commentary.
type SpeechSynthesizer struct {
	cor.BaseCommand
	synthesizer cloud.SpeechSynthesizer
}

func NewSpeechSynthesizer(name string, synthesizer cloud.SpeechSynthesizer) *SpeechSynthesizer {
	return &SpeechSynthesizer{
		BaseCommand: cor.NewBaseCommand(name),
		synthesizer: synthesizer,
	}
}

// Execute synthesizes the joined commentary into an MP3 in the scratch
// directory and outputs its path.
func (c *SpeechSynthesizer) Execute(context cor.Context) {
	entries := context.Get(c.GetInputParam()).([]model.CommentaryEntry)
	params := context.Get(KeyParams).(*RunParams)
	scratchDir := context.Get(KeyScratchDir).(string)

	voice, err := cloud.ResolveVoice(params.Language, params.Gender)
	if err != nil {
		context.AddError(c.GetName(), err)
		return
	}

	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		texts = append(texts, entry.Text)
	}
	passage := strings.Join(texts, " ")

	audio, err := c.synthesizer.Synthesize(context.GetContext(), passage, voice)
	if err != nil {
		context.AddError(c.GetName(), fmt.Errorf("speech synthesis failed: %w", err))
		return
	}

	audioPath := filepath.Join(scratchDir, "narration.mp3")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		context.AddError(c.GetName(), fmt.Errorf("writing narration audio: %w", err))
		return
	}

	context.Add(KeyAudioFile, audioPath)
	context.Add(c.GetOutputParam(), audioPath)
}
