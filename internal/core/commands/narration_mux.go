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

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// NarrationMux lays the synthesized narration track over the assembled reel.
// The video stream is copied untouched; only the audio is encoded, and the
// result stops at the shorter of the two streams.
type NarrationMux struct {
	cor.BaseCommand
	toolchain    CodecToolchain
	outputFolder string
}

func NewNarrationMux(name string, toolchain CodecToolchain, outputFolder string) *NarrationMux {
	return &NarrationMux{
		BaseCommand:  cor.NewBaseCommand(name),
		toolchain:    toolchain,
		outputFolder: outputFolder,
	}
}

// Execute muxes the narration audio onto the merged video and outputs the
// final deliverable's path.
func (c *NarrationMux) Execute(context cor.Context) {
	audioPath := context.Get(c.GetInputParam()).(string)
	merged := context.Get(KeyAssembled).(*model.MediaAsset)
	params := context.Get(KeyParams).(*RunParams)

	output := filepath.Join(c.outputFolder, fmt.Sprintf("%s_final.mp4", params.RunID))
	diagnostics, err := c.toolchain.Mux(context.GetContext(), merged.LocalPath, audioPath, output)
	if err != nil {
		context.AddError(c.GetName(), &model.MuxError{Output: diagnostics})
		return
	}

	context.Add(KeyFinalVideo, output)
	context.Add(c.GetOutputParam(), output)
}
