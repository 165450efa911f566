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

// Package media_test exercises the frame math and the argv builders without
// invoking the codec tools themselves.
package media_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/media"
)

func TestFrameIndexFloors(t *testing.T) {
	assert.Equal(t, int64(0), media.FrameIndex(0, 30))
	assert.Equal(t, int64(60), media.FrameIndex(2, 30))
	assert.Equal(t, int64(74), media.FrameIndex(2.5, 29.97))
	// 0.1*30 is 2.9999... in floating point; flooring must not round up.
	assert.Equal(t, int64(2), media.FrameIndex(0.0999999, 30))
}

// A 0:02 to 0:05 moment at 30fps spans exactly 90 frames.
func TestClipArgsFrameMath(t *testing.T) {
	start := media.FrameIndex(2, 30)
	end := media.FrameIndex(5, 30)
	args := media.ClipArgs("in.mp4", "out.mp4", start, end, 30)

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-frames:v 90")
	assert.Contains(t, joined, "-ss 2.000000")
	assert.Contains(t, joined, "-an")
	// The seek must come before the input for fast, frame-aligned seeking.
	assert.Less(t, indexOf(args, "-ss"), indexOf(args, "-i"))
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestConcatArgsStreamCopies(t *testing.T) {
	args := media.ConcatArgs("list.txt", "merged.mp4")
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-f concat")
	assert.Contains(t, joined, "-safe 0")
	assert.Contains(t, joined, "-c copy")
	assert.Equal(t, "merged.mp4", args[len(args)-1])
}

func TestMuxArgsCopiesVideoEncodesAudio(t *testing.T) {
	args := media.MuxArgs("merged.mp4", "narration.mp3", "final.mp4")
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, joined, "-c:a aac")
	assert.Contains(t, joined, "-shortest")
	// Video input must precede the audio input so stream 0 stays video.
	assert.Less(t, indexOf(args, "merged.mp4"), indexOf(args, "narration.mp3"))
}

func TestWriteConcatListPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	listFile := filepath.Join(dir, "concat.txt")
	clips := []string{
		filepath.Join(dir, "clip_2.mp4"),
		filepath.Join(dir, "clip_0.mp4"),
		filepath.Join(dir, "clip_1.mp4"),
	}
	assert.NoError(t, media.WriteConcatList(listFile, clips))

	content, err := os.ReadFile(listFile)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, 3, len(lines))
	// Order must follow the clip slice, not lexical filenames.
	assert.Contains(t, lines[0], "clip_2.mp4")
	assert.Contains(t, lines[1], "clip_0.mp4")
	assert.Contains(t, lines[2], "clip_1.mp4")
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}
