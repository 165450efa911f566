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

// MomentsJsonToStruct turns the extractor's raw response text into a
// validated MomentSet via the recovery chain. It publishes the set under
// KeyMoments as well so the handler can echo the timestamps in the response.
type MomentsJsonToStruct struct {
	cor.BaseCommand
}

func NewMomentsJsonToStruct(name string) *MomentsJsonToStruct {
	return &MomentsJsonToStruct{BaseCommand: cor.NewBaseCommand(name)}
}

func (c *MomentsJsonToStruct) Execute(context cor.Context) {
	raw := context.Get(c.GetInputParam()).(string)

	set, err := parse.DecodeMomentSet(raw)
	if err != nil {
		context.AddError(c.GetName(), err)
		return
	}

	slog.Info("moments extracted", "command", c.GetName(), "count", len(set.Moments))
	context.Add(KeyMoments, set)
	context.Add(c.GetOutputParam(), set)
}
