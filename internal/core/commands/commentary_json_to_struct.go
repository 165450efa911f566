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
	"log/slog"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/parse"
)

// CommentaryJsonToStruct turns the commentary creator's raw response into
// timestamped entries via the recovery chain, publishing them under
// KeyCommentary for the handler's response body.
type CommentaryJsonToStruct struct {
	cor.BaseCommand
}

func NewCommentaryJsonToStruct(name string) *CommentaryJsonToStruct {
	return &CommentaryJsonToStruct{BaseCommand: cor.NewBaseCommand(name)}
}

func (c *CommentaryJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(c.GetInputParam()).(string)

	entries, err := parse.DecodeCommentary(raw)
	if err != nil {
		context.AddError(c.GetName(), err)
		return
	}

	slog.Info("commentary parsed", "command", c.GetName(), "entries", len(entries))
	context.Add(KeyCommentary, entries)
	context.Add(c.GetOutputParam(), entries)
}
