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

// Package services contains the business logic behind the HTTP surface.
// This file manages the local video folders: uploads land in the input
// folder, finished reels in the output folder, and downloads may only
// resolve inside those two roots. Filenames are always flattened to their
// base name, so a crafted path can never escape the folders.
package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// MediaService owns the input and output video folders.
type MediaService struct {
	inputFolder  string
	outputFolder string
}

// NewMediaService creates both folders if needed and returns the service.
func NewMediaService(inputFolder, outputFolder string) (*MediaService, error) {
	for _, dir := range []string{inputFolder, outputFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating media folder %s: %w", dir, err)
		}
	}
	return &MediaService{inputFolder: inputFolder, outputFolder: outputFolder}, nil
}

// InputPath returns the input-folder path for a flattened filename.
func (s *MediaService) InputPath(filename string) string {
	return filepath.Join(s.inputFolder, filepath.Base(filename))
}

// SaveUpload streams an uploaded video into the input folder and returns
// the stored filename.
func (s *MediaService) SaveUpload(filename string, src io.Reader) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(os.PathSeparator) || name == "" {
		return "", fmt.Errorf("invalid upload filename %q", filename)
	}

	dst, err := os.Create(filepath.Join(s.inputFolder, name))
	if err != nil {
		return "", fmt.Errorf("storing upload %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("storing upload %s: %w", name, err)
	}
	return name, nil
}

// HasVideo reports whether a video with this filename has been uploaded.
func (s *MediaService) HasVideo(filename string) bool {
	_, err := os.Stat(s.InputPath(filename))
	return err == nil
}

// ListVideos returns the uploaded video filenames in stable order.
func (s *MediaService) ListVideos() ([]string, error) {
	entries, err := os.ReadDir(s.inputFolder)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteVideo removes an uploaded video.
func (s *MediaService) DeleteVideo(filename string) error {
	path := s.InputPath(filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &model.NotFoundError{Path: path}
	}
	return os.Remove(path)
}

// ResolveDownload maps a requested path onto a real file inside the input
// or output folder. Anything that cleans to a location outside both roots
// is reported as not found rather than revealing what exists elsewhere.
func (s *MediaService) ResolveDownload(requested string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(requested, "/"))
	for _, root := range []string{s.outputFolder, s.inputFolder} {
		candidate := cleaned
		if !strings.HasPrefix(candidate, root+string(os.PathSeparator)) && candidate != root {
			candidate = filepath.Join(root, filepath.Base(cleaned))
		}
		rel, err := filepath.Rel(root, candidate)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &model.NotFoundError{Path: requested}
}
