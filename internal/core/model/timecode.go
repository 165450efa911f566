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
// This file implements the timecode format the generative model speaks:
// "M:SS" or "MM:SS", where the seconds component may carry a fractional part
// (e.g. "1:02.5"). Conversion is total = minutes*60 + seconds.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimecode converts an "M:SS" / "MM:SS(.s)" string into total seconds.
func ParseTimecode(tc string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timecode %q: want M:SS", tc)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("invalid minutes in timecode %q", tc)
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("invalid seconds in timecode %q", tc)
	}
	return float64(minutes)*60 + seconds, nil
}

// FormatTimecode renders total seconds back into the model's "M:SS" form.
// Fractional seconds are kept only when present, so whole-second values
// round-trip exactly.
func FormatTimecode(total float64) string {
	minutes := int(total) / 60
	seconds := total - float64(minutes*60)
	if seconds == math.Trunc(seconds) {
		return fmt.Sprintf("%d:%02.0f", minutes, seconds)
	}
	out := strconv.FormatFloat(seconds, 'f', -1, 64)
	if seconds < 10 {
		out = "0" + out
	}
	return fmt.Sprintf("%d:%s", minutes, out)
}
