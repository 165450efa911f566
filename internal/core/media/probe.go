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

// Package media wraps the local codec toolchain (ffmpeg/ffprobe) behind a
// small surface the pipeline commands can use. This file handles stream
// probing: frame rate, frame count, and dimensions are derived lazily from
// the first ffprobe call and cached on the asset.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// probeOutput models the subset of ffprobe's JSON we care about.
type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// VideoInfo is the probe result for a single video stream.
type VideoInfo struct {
	FrameRate  float64
	FrameCount int64
	Width      int
	Height     int
	Duration   float64
}

// Probe runs ffprobe against path and extracts the first video stream's
// frame rate, frame count, and dimensions. When the container does not carry
// nb_frames (common for some muxers), the count is derived from duration and
// frame rate.
func (t *Toolchain) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	stdout, err := t.run(ctx, t.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, fmt.Errorf("unexpected ffprobe output for %s: %w", path, err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := &VideoInfo{Width: s.Width, Height: s.Height}
		info.FrameRate, err = parseRational(s.RFrameRate)
		if err != nil || info.FrameRate <= 0 {
			info.FrameRate, err = parseRational(s.AvgFrameRate)
			if err != nil {
				return nil, fmt.Errorf("no usable frame rate for %s", path)
			}
		}
		if d, derr := strconv.ParseFloat(out.Format.Duration, 64); derr == nil {
			info.Duration = d
		}
		if n, nerr := strconv.ParseInt(s.NbFrames, 10, 64); nerr == nil && n > 0 {
			info.FrameCount = n
		} else {
			info.FrameCount = int64(math.Round(info.Duration * info.FrameRate))
		}
		return info, nil
	}
	return nil, fmt.Errorf("no video stream in %s", path)
}

// parseRational converts ffprobe's "30000/1001" style frame rates to a float.
func parseRational(r string) (float64, error) {
	num, den, found := strings.Cut(r, "/")
	if !found {
		return strconv.ParseFloat(r, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", r)
	}
	return n / d, nil
}

// FrameIndex converts a time offset to a frame index at the given rate.
func FrameIndex(seconds, fps float64) int64 {
	return int64(math.Floor(seconds * fps))
}
