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

package cloud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// The voice table is a closed set; every supported pair resolves to a fixed
// voice and everything else fails before any network call could happen.
func TestResolveVoiceKnownPairs(t *testing.T) {
	cases := []struct {
		language string
		gender   string
		wantCode string
		wantName string
	}{
		{"en", "female", "en-US", "en-US-Neural2-F"},
		{"en", "male", "en-US", "en-US-Neural2-D"},
		{"ja", "female", "ja-JP", "ja-JP-Neural2-B"},
		{"ja", "male", "ja-JP", "ja-JP-Neural2-C"},
		{"es", "female", "es-ES", "es-ES-Neural2-A"},
		{"es", "male", "es-ES", "es-ES-Neural2-B"},
	}
	for _, c := range cases {
		voice, err := cloud.ResolveVoice(c.language, c.gender)
		assert.NoError(t, err, "%s/%s", c.language, c.gender)
		assert.Equal(t, c.wantCode, voice.LanguageCode)
		assert.Equal(t, c.wantName, voice.Name)
	}
}

func TestResolveVoiceRejectsUnknownPairs(t *testing.T) {
	for _, c := range [][2]string{
		{"de", "female"},
		{"en", "neutral"},
		{"", ""},
		{"EN", "female"},
	} {
		_, err := cloud.ResolveVoice(c[0], c[1])
		var voiceErr *model.UnsupportedVoiceError
		assert.ErrorAs(t, err, &voiceErr, "%s/%s", c[0], c[1])
	}
}
