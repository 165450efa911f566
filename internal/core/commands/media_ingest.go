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
// workflow. This file defines the ingestion command: it registers a local
// video with the remote inference file service and blocks until the service
// reports the file ready for analysis.
//
// The readiness wait is a bounded poll. The file service processes uploads
// asynchronously and offers no callback, so the command re-reads the handle
// on a fixed interval until the state leaves PROCESSING, the attempt ceiling
// is hit, or the request context is canceled. A FAILED state is a hard
// error; the model cannot analyze a file the service could not decode.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/h2non/filetype"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// MediaIngest uploads a local video to the inference file service and polls
// it to readiness. The same command type serves both the source ingest and
// the narration stage's re-ingest of the assembled video.
type MediaIngest struct {
	cor.BaseCommand
	fileStore    cloud.RemoteFileStore
	pollInterval time.Duration
	maxAttempts  int
}

// NewMediaIngest builds the ingestion command. pollIntervalSeconds and
// maxAttempts bound the readiness wait.
func NewMediaIngest(name string, fileStore cloud.RemoteFileStore, pollIntervalSeconds int, maxAttempts int) *MediaIngest {
	if pollIntervalSeconds <= 0 {
		pollIntervalSeconds = 10
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	return &MediaIngest{
		BaseCommand:  cor.NewBaseCommand(name),
		fileStore:    fileStore,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		maxAttempts:  maxAttempts,
	}
}

// Execute uploads the asset from the input param and blocks until the remote
// handle settles. The ready handle goes to the output param, and is also
// appended to the run's remote-handle list for end-of-run cleanup.
func (c *MediaIngest) Execute(context cor.Context) {
	asset := context.Get(c.GetInputParam()).(*model.MediaAsset)

	if _, err := os.Stat(asset.LocalPath); errors.Is(err, os.ErrNotExist) {
		context.AddError(c.GetName(), &model.NotFoundError{Path: asset.LocalPath})
		return
	}

	mimeType := "video/mp4"
	if kind, err := filetype.MatchFile(asset.LocalPath); err == nil && kind != filetype.Unknown {
		mimeType = kind.MIME.Value
	}

	handle, err := c.fileStore.Upload(context.GetContext(), asset.LocalPath, asset.OriginalFilename, mimeType)
	if err != nil {
		context.AddError(c.GetName(), fmt.Errorf("upload of %s failed: %w", asset.LocalPath, err))
		return
	}
	trackRemoteHandle(context, handle)

	handle, err = c.awaitReady(context, handle)
	if err != nil {
		context.AddError(c.GetName(), err)
		return
	}

	slog.Info("remote file ready",
		"command", c.GetName(),
		"file", handle.Name,
		"uri", handle.URI)
	context.Add(c.GetOutputParam(), handle)
}

// awaitReady polls the handle until it leaves PROCESSING. Each wait races
// the request context so a canceled request stops the poll immediately.
func (c *MediaIngest) awaitReady(context cor.Context, handle *model.RemoteUploadHandle) (*model.RemoteUploadHandle, error) {
	ctx := context.GetContext()
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		switch handle.State {
		case model.StateReady:
			return handle, nil
		case model.StateFailed:
			return nil, &model.RemoteProcessingError{Name: handle.Name}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		refreshed, err := c.fileStore.Get(ctx, handle.Name)
		if err != nil {
			return nil, fmt.Errorf("polling %s: %w", handle.Name, err)
		}
		handle = refreshed
	}
	return nil, &model.RemoteProcessingError{
		Name:   handle.Name,
		Reason: fmt.Sprintf("still processing after %d polls", c.maxAttempts),
	}
}

// trackRemoteHandle records a remote registration for best-effort deletion
// when the run ends, success or not.
func trackRemoteHandle(context cor.Context, handle *model.RemoteUploadHandle) {
	handles, _ := context.Get(KeyRemoteHandles).([]*model.RemoteUploadHandle)
	context.Add(KeyRemoteHandles, append(handles, handle))
}
