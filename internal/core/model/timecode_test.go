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

// Package model_test contains unit tests for the highlight data models.
// This file covers the timecode parsing and formatting used to address
// moments inside the source video.
package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

func TestParseTimecode(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0:00", 0},
		{"0:12", 12},
		{"1:05", 65},
		{"12:34", 754},
		{"1:18.5", 78.5},
		{"0:59.25", 59.25},
		{" 2:30 ", 150},
	}
	for _, c := range cases {
		got, err := model.ParseTimecode(c.in)
		assert.NoError(t, err, "timecode %q", c.in)
		assert.Equal(t, c.want, got, "timecode %q", c.in)
	}
}

func TestParseTimecodeRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "90", "1:60", "1:-5", "-1:30", "1:2:3", "abc", "1:xx"} {
		_, err := model.ParseTimecode(in)
		assert.Error(t, err, "timecode %q should be rejected", in)
	}
}

// Whole-second values must survive a parse/format/parse cycle unchanged;
// that property keeps diagnostics readable against the model's own output.
func TestTimecodeRoundTrip(t *testing.T) {
	for _, in := range []string{"0:00", "0:07", "1:05", "10:59", "123:01"} {
		total, err := model.ParseTimecode(in)
		assert.NoError(t, err)
		assert.Equal(t, in, model.FormatTimecode(total))
	}
}

func TestMomentSecondsRejectsInvertedInterval(t *testing.T) {
	m := &model.Moment{StartTime: "1:10", EndTime: "1:10"}
	_, _, err := m.Seconds()
	assert.Error(t, err)

	m = &model.Moment{StartTime: "1:10", EndTime: "0:50"}
	_, _, err = m.Seconds()
	var parseErr *model.ExtractionParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestMomentSetValidate(t *testing.T) {
	set := &model.MomentSet{Moments: []model.Moment{
		{StartTime: "0:02", EndTime: "0:05"},
		{StartTime: "0:05", EndTime: "0:20.5"},
	}}
	assert.NoError(t, set.Validate())

	set.Moments = append(set.Moments, model.Moment{StartTime: "0:30", EndTime: "0:30"})
	assert.Error(t, set.Validate())
}
