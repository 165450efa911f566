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
// workflow. This file defines the segment renderer: it probes the source
// once for its frame rate, then cuts one clip per extracted moment on frame
// boundaries.
//
// Frame math: a moment's timecodes convert to seconds, and each boundary
// maps to frame floor(seconds * fps). The rendered range is half-open
// [startFrame, endFrame), so adjacent moments sharing a boundary never
// duplicate a frame. A moment that rounds to zero frames is skipped without
// producing a file, and a moment whose render fails is skipped with a log
// line; one bad interval must not sink the reel. Only a source that cannot
// be probed at all fails the stage.
package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/media"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// SegmentRenderer cuts the extracted moments out of the source video into
// per-moment clip files in the run's scratch directory.
type SegmentRenderer struct {
	cor.BaseCommand
	toolchain CodecToolchain
}

func NewSegmentRenderer(name string, toolchain CodecToolchain) *SegmentRenderer {
	return &SegmentRenderer{
		BaseCommand: cor.NewBaseCommand(name),
		toolchain:   toolchain,
	}
}

// Execute probes the source, renders each moment, and outputs the surviving
// clips in moment order.
func (c *SegmentRenderer) Execute(context cor.Context) {
	set := context.Get(c.GetInputParam()).(*model.MomentSet)
	asset := context.Get(KeySourceAsset).(*model.MediaAsset)
	scratchDir := context.Get(KeyScratchDir).(string)

	info, err := c.toolchain.Probe(context.GetContext(), asset.LocalPath)
	if err != nil {
		context.AddError(c.GetName(), &model.RenderError{Path: asset.LocalPath, Detail: err.Error()})
		return
	}
	asset.FrameRate = info.FrameRate
	asset.FrameCount = info.FrameCount
	asset.Width = info.Width
	asset.Height = info.Height

	clips := make([]*model.ClipFile, 0, len(set.Moments))
	for i, moment := range set.Moments {
		start, end, err := moment.Seconds()
		if err != nil {
			// The set was validated at parse time; a failure here means the
			// set was mutated, which is a bug worth surfacing.
			context.AddError(c.GetName(), err)
			return
		}

		startFrame := media.FrameIndex(start, info.FrameRate)
		endFrame := media.FrameIndex(end, info.FrameRate)
		if endFrame <= startFrame {
			slog.Warn("moment spans zero frames, skipping",
				"command", c.GetName(),
				"ordinal", i,
				"start", moment.StartTime,
				"end", moment.EndTime)
			continue
		}

		clipPath := filepath.Join(scratchDir, fmt.Sprintf("clip_%d.mp4", i))
		if err := c.toolchain.RenderClip(context.GetContext(), asset.LocalPath, clipPath, startFrame, endFrame, info.FrameRate); err != nil {
			slog.Warn("clip render failed, skipping moment",
				"command", c.GetName(),
				"ordinal", i,
				"error", err)
			continue
		}
		clips = append(clips, &model.ClipFile{
			Path:       clipPath,
			Ordinal:    i,
			FrameCount: endFrame - startFrame,
		})
	}

	slog.Info("segments rendered",
		"command", c.GetName(),
		"moments", len(set.Moments),
		"clips", len(clips))
	context.Add(KeyClips, clips)
	context.Add(c.GetOutputParam(), clips)
}
