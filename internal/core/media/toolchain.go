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

// Package media wraps the local codec toolchain (ffmpeg/ffprobe). This file
// defines the Toolchain, the argv builders for each operation, and the
// process runner. Argv construction is split from execution so the frame
// math and command shape stay unit-testable without a codec install.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Toolchain holds the executable paths for the local codec tools.
type Toolchain struct {
	FFmpegPath  string
	FFprobePath string
}

// NewToolchain builds a Toolchain, defaulting to PATH lookup when the
// configured paths are empty.
func NewToolchain(ffmpegPath, ffprobePath string) *Toolchain {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Toolchain{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// ClipArgs builds the argv for rendering one moment's frame range
// [startFrame, endFrame) out of the source. The seek offset is expressed in
// frames-at-source-rate converted back to seconds so the cut lands on the
// same frame the index math names. Clips are re-encoded for frame accuracy
// and rendered without audio; narration is muxed onto the assembled video
// later as a single track.
func ClipArgs(input, output string, startFrame, endFrame int64, fps float64) []string {
	frames := endFrame - startFrame
	return []string{
		"-y", "-hide_banner",
		"-ss", strconv.FormatFloat(float64(startFrame)/fps, 'f', 6, 64),
		"-i", input,
		"-frames:v", strconv.FormatInt(frames, 10),
		"-an",
		"-f", "mp4",
		output,
	}
}

// ConcatArgs builds the argv for concatenating rendered clips with the
// concat demuxer. Clips all come out of ClipArgs with identical encoding
// settings, so stream copy keeps the frames verbatim at the source rate.
func ConcatArgs(listFile, output string) []string {
	return []string{
		"-y", "-hide_banner",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-f", "mp4",
		output,
	}
}

// MuxArgs builds the argv for muxing a narration track onto the assembled
// video. The video stream is copied untouched, the audio is encoded, and
// -shortest truncates to the shorter of the two streams.
func MuxArgs(video, audio, output string) []string {
	return []string{
		"-y", "-hide_banner",
		"-i", video,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-f", "mp4",
		output,
	}
}

// WriteConcatList writes the concat demuxer's file list next to the clips.
// Order follows the clip slice, never lexical filenames.
func WriteConcatList(path string, clips []string) error {
	var b strings.Builder
	for _, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderClip executes a ClipArgs render.
func (t *Toolchain) RenderClip(ctx context.Context, input, output string, startFrame, endFrame int64, fps float64) error {
	_, err := t.run(ctx, t.FFmpegPath, ClipArgs(input, output, startFrame, endFrame, fps)...)
	return err
}

// Concat executes a ConcatArgs assembly over the list file at listFile.
func (t *Toolchain) Concat(ctx context.Context, listFile, output string) error {
	_, err := t.run(ctx, t.FFmpegPath, ConcatArgs(listFile, output)...)
	return err
}

// Mux executes a MuxArgs narration mux. The raw tool diagnostics are
// returned on failure so the caller can surface them.
func (t *Toolchain) Mux(ctx context.Context, video, audio, output string) (string, error) {
	_, err := t.run(ctx, t.FFmpegPath, MuxArgs(video, audio, output)...)
	if err != nil {
		return err.Error(), err
	}
	return "", nil
}

// run executes a tool and returns stdout, folding stderr into the error on a
// non-zero exit.
func (t *Toolchain) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
