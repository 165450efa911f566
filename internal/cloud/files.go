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

// Package cloud provides the external-collaborator clients. This file
// adapts the Gemini Files API to the RemoteFileStore surface the ingestion
// command depends on. The Files API registers an uploaded video with the
// inference backend and reports a readiness state the caller must poll.
package cloud

import (
	"context"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
	"google.golang.org/genai"
)

// RemoteFileStore is the contract the ingestion stage polls against.
type RemoteFileStore interface {
	Upload(ctx context.Context, localPath, displayName, mimeType string) (*model.RemoteUploadHandle, error)
	Get(ctx context.Context, name string) (*model.RemoteUploadHandle, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*model.RemoteUploadHandle, error)
}

// GenAIFileStore backs RemoteFileStore with the Gemini Files API.
type GenAIFileStore struct {
	client *genai.Client
}

// NewGenAIFileStore wraps an initialized genai client.
func NewGenAIFileStore(client *genai.Client) *GenAIFileStore {
	return &GenAIFileStore{client: client}
}

// Upload registers a local file with the inference service. The returned
// handle is usually still PROCESSING; callers poll Get until it settles.
func (s *GenAIFileStore) Upload(ctx context.Context, localPath, displayName, mimeType string) (*model.RemoteUploadHandle, error) {
	f, err := s.client.Files.UploadFromPath(ctx, localPath, &genai.UploadFileConfig{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, err
	}
	return toHandle(f), nil
}

// Get refreshes a handle's processing state.
func (s *GenAIFileStore) Get(ctx context.Context, name string) (*model.RemoteUploadHandle, error) {
	f, err := s.client.Files.Get(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	return toHandle(f), nil
}

// Delete releases the remote registration. Handles live for one request, so
// this runs during cleanup regardless of pipeline outcome.
func (s *GenAIFileStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.Files.Delete(ctx, name, nil)
	return err
}

// List enumerates every file currently registered with the service.
func (s *GenAIFileStore) List(ctx context.Context) ([]*model.RemoteUploadHandle, error) {
	var out []*model.RemoteUploadHandle
	for f, err := range s.client.Files.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, toHandle(f))
	}
	return out, nil
}

func toHandle(f *genai.File) *model.RemoteUploadHandle {
	h := &model.RemoteUploadHandle{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
	}
	switch f.State {
	case genai.FileStateProcessing:
		h.State = model.StateProcessing
	case genai.FileStateActive:
		h.State = model.StateReady
	case genai.FileStateFailed:
		h.State = model.StateFailed
	default:
		h.State = model.StatePending
	}
	return h
}
