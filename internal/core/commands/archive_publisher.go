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
// workflow. This file defines the archive step: when an archive bucket is
// configured, the final deliverable is copied to GCS so it survives the
// transient local output folder. Archiving is best-effort; the local file
// is the primary deliverable.
package commands

import (
	"context"
	"log/slog"
	"path"
	"time"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// SignedURLTTL bounds how long an archived video's download link stays valid.
const SignedURLTTL = 24 * time.Hour

// ArchiveStore is the slice of the archive client this command consumes.
// cloud.Archiver is the production implementation.
type ArchiveStore interface {
	Store(ctx context.Context, localPath, objectName string) (string, error)
	SignedURL(objectName string, expires time.Duration) (string, error)
	CanSign() bool
}

// ArchivePublisher copies the run's final video to the archive bucket.
type ArchivePublisher struct {
	cor.BaseCommand
	archiver ArchiveStore
}

func NewArchivePublisher(name string, archiver ArchiveStore) *ArchivePublisher {
	return &ArchivePublisher{
		BaseCommand: cor.NewBaseCommand(name),
		archiver:    archiver,
	}
}

// IsExecutable requires a configured archiver and a finished video.
func (c *ArchivePublisher) IsExecutable(context cor.Context) bool {
	return c.archiver != nil && !context.HasErrors() && context.Get(KeyAssembled) != nil
}

// Execute uploads the narrated video when one exists, otherwise the merged
// reel, and publishes its URL under KeyArchiveURL: a signed download link
// when the archiver can sign, the raw gs:// URI otherwise.
func (c *ArchivePublisher) Execute(context cor.Context) {
	params := context.Get(KeyParams).(*RunParams)
	local := context.Get(KeyAssembled).(*model.MediaAsset).LocalPath
	if final, ok := context.Get(KeyFinalVideo).(string); ok {
		local = final
	}

	objectName := path.Join(params.RunID, path.Base(local))
	uri, err := c.archiver.Store(context.GetContext(), local, objectName)
	if err != nil {
		slog.Warn("failed to archive final video",
			"command", c.GetName(),
			"file", local,
			"error", err)
		c.GetErrorCounter().Add(context.GetContext(), 1)
		return
	}

	archiveURL := uri
	if c.archiver.CanSign() {
		if signed, err := c.archiver.SignedURL(objectName, SignedURLTTL); err != nil {
			slog.Warn("failed to sign archive URL, falling back to gs:// URI",
				"command", c.GetName(),
				"object", objectName,
				"error", err)
		} else {
			archiveURL = signed
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(KeyArchiveURL, archiveURL)
}
