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
	"context"

	"github.com/diamond-district/go-highlight-reel/internal/core/media"
)

// CodecToolchain is the slice of the local codec tooling the rendering
// commands consume. media.Toolchain is the production implementation.
type CodecToolchain interface {
	Probe(ctx context.Context, path string) (*media.VideoInfo, error)
	RenderClip(ctx context.Context, input, output string, startFrame, endFrame int64, fps float64) error
	Concat(ctx context.Context, listFile, output string) error
	Mux(ctx context.Context, video, audio, output string) (string, error)
}
