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
// workflow. This file defines the assembler: it concatenates the rendered
// clips, in moment order, into the merged highlight video.
//
// The output parameters come from the first clip. Its frame rate and
// dimensions set the reel's, and every later clip must match them exactly;
// the concat is a stream copy, so a mismatched clip would corrupt the
// output rather than fail loudly. Mismatches are rejected up front.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/media"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// Assembler concatenates rendered clips into the merged highlight video.
type Assembler struct {
	cor.BaseCommand
	toolchain    CodecToolchain
	outputFolder string
}

func NewAssembler(name string, toolchain CodecToolchain, outputFolder string) *Assembler {
	return &Assembler{
		BaseCommand:  cor.NewBaseCommand(name),
		toolchain:    toolchain,
		outputFolder: outputFolder,
	}
}

// Execute validates the clip set, writes the concat list, and runs the
// stream-copy concatenation. The merged video, as a probed MediaAsset, goes
// to the output param so a narration stage can re-ingest it directly.
func (c *Assembler) Execute(context cor.Context) {
	clips := context.Get(c.GetInputParam()).([]*model.ClipFile)
	params := context.Get(KeyParams).(*RunParams)
	scratchDir := context.Get(KeyScratchDir).(string)

	if len(clips) == 0 {
		context.AddError(c.GetName(), &model.EmptyTimelineError{})
		return
	}

	first, err := c.toolchain.Probe(context.GetContext(), clips[0].Path)
	if err != nil {
		context.AddError(c.GetName(), &model.ReadError{Path: clips[0].Path})
		return
	}

	var totalFrames int64
	paths := make([]string, 0, len(clips))
	for _, clip := range clips {
		info := first
		if clip != clips[0] {
			if info, err = c.toolchain.Probe(context.GetContext(), clip.Path); err != nil {
				context.AddError(c.GetName(), &model.RenderError{Path: clip.Path, Detail: err.Error()})
				return
			}
		}
		if info.FrameRate != first.FrameRate || info.Width != first.Width || info.Height != first.Height {
			context.AddError(c.GetName(), &model.RenderError{
				Path: clip.Path,
				Detail: fmt.Sprintf("clip parameters %gfps %dx%d do not match first clip %gfps %dx%d",
					info.FrameRate, info.Width, info.Height,
					first.FrameRate, first.Width, first.Height),
			})
			return
		}
		totalFrames += clip.FrameCount
		paths = append(paths, clip.Path)
	}

	listFile := filepath.Join(scratchDir, "concat.txt")
	if err := media.WriteConcatList(listFile, paths); err != nil {
		context.AddError(c.GetName(), fmt.Errorf("writing concat list: %w", err))
		return
	}

	output := filepath.Join(c.outputFolder, fmt.Sprintf("%s_merged.mp4", params.RunID))
	if err := c.toolchain.Concat(context.GetContext(), listFile, output); err != nil {
		context.AddError(c.GetName(), &model.RenderError{Path: output, Detail: err.Error()})
		return
	}

	merged := &model.MediaAsset{
		LocalPath:        output,
		OriginalFilename: filepath.Base(output),
		FrameRate:        first.FrameRate,
		FrameCount:       totalFrames,
		Width:            first.Width,
		Height:           first.Height,
	}
	context.Add(KeyAssembled, merged)
	context.Add(c.GetOutputParam(), merged)
}
