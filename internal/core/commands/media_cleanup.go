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
// workflow. This file defines end-of-run cleanup. Remote file registrations
// and the scratch directory live for exactly one run; cleanup releases both
// regardless of how the run ended. Every failure here is logged and
// swallowed. Cleanup must never convert a successful run into a failed one,
// and the scratch sweeper catches anything that slips through.
package commands

import (
	"log/slog"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// MediaCleanup releases a run's remote file registrations. The workflow
// invokes it directly after the chain, success or failure; it is not part of
// the piped sequence.
type MediaCleanup struct {
	cor.BaseCommand
	fileStore cloud.RemoteFileStore
}

func NewMediaCleanup(name string, fileStore cloud.RemoteFileStore) *MediaCleanup {
	return &MediaCleanup{
		BaseCommand: cor.NewBaseCommand(name),
		fileStore:   fileStore,
	}
}

// IsExecutable always allows cleanup, errors or not.
func (c *MediaCleanup) IsExecutable(_ cor.Context) bool {
	return true
}

// Execute deletes every remote handle the run registered.
func (c *MediaCleanup) Execute(context cor.Context) {
	handles, _ := context.Get(KeyRemoteHandles).([]*model.RemoteUploadHandle)
	for _, handle := range handles {
		if err := c.fileStore.Delete(context.GetContext(), handle.Name); err != nil {
			slog.Warn("failed to delete remote file",
				"command", c.GetName(),
				"file", handle.Name,
				"error", err)
			continue
		}
		slog.Debug("remote file deleted", "command", c.GetName(), "file", handle.Name)
	}
	context.Remove(KeyRemoteHandles)
}
