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

// Package cloud provides the external-collaborator clients. This file maps
// the narration voice table onto Cloud Text-to-Speech. The language/gender
// set is closed by design: voice resolution is a pure lookup that fails
// before any network call is made.
package cloud

import (
	"context"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// Voice is one resolved entry of the narration voice table.
type Voice struct {
	LanguageCode string
	Name         string
}

// voiceTable is the closed language/gender enumeration. Anything outside it
// is an UnsupportedVoiceError.
var voiceTable = map[string]map[string]Voice{
	"en": {
		"female": {LanguageCode: "en-US", Name: "en-US-Neural2-F"},
		"male":   {LanguageCode: "en-US", Name: "en-US-Neural2-D"},
	},
	"ja": {
		"female": {LanguageCode: "ja-JP", Name: "ja-JP-Neural2-B"},
		"male":   {LanguageCode: "ja-JP", Name: "ja-JP-Neural2-C"},
	},
	"es": {
		"female": {LanguageCode: "es-ES", Name: "es-ES-Neural2-A"},
		"male":   {LanguageCode: "es-ES", Name: "es-ES-Neural2-B"},
	},
}

// ResolveVoice looks up the fixed voice identifier for a language/gender
// pair. Validation happens here, ahead of any synthesis request.
func ResolveVoice(language, gender string) (Voice, error) {
	genders, ok := voiceTable[language]
	if !ok {
		return Voice{}, &model.UnsupportedVoiceError{Language: language, Gender: gender}
	}
	voice, ok := genders[gender]
	if !ok {
		return Voice{}, &model.UnsupportedVoiceError{Language: language, Gender: gender}
	}
	return voice, nil
}

// SpeechSynthesizer is the contract the narration stage calls. Tests swap in
// a stub; production wires Cloud Text-to-Speech.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// TTSSynthesizer backs SpeechSynthesizer with the Cloud Text-to-Speech API.
type TTSSynthesizer struct {
	client *texttospeech.Client
}

// NewTTSSynthesizer wraps an initialized Text-to-Speech client.
func NewTTSSynthesizer(client *texttospeech.Client) *TTSSynthesizer {
	return &TTSSynthesizer{client: client}
}

// Synthesize renders the narration text as a single MP3 track.
func (t *TTSSynthesizer) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	resp, err := t.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.AudioContent, nil
}
