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

// Package testutil provides helpers and deterministic stubs for the test
// suite: test configuration loading plus in-memory fakes for the generative
// model, the remote file store, the speech synthesizer, and the codec
// toolchain.
package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/media"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

type stateManager struct {
	config *cloud.Config
}

var state = &stateManager{}

// HandleErr fails the test on a non-nil error.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test TOML overrides.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig loads (once) and returns the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// StubResponder is a canned GenerativeResponder. Responses are returned in
// order; the last one repeats once the list runs out.
type StubResponder struct {
	Responses []string
	Err       error
	Calls     int
}

func (s *StubResponder) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	idx := s.Calls - 1
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: s.Responses[idx]}}},
		}},
	}, nil
}

// StubFileStore is an in-memory RemoteFileStore. States lists the handle
// states reported by successive Get calls, letting tests script the
// PROCESSING -> READY (or FAILED) progression.
type StubFileStore struct {
	States    []model.ProcessingState
	Handles   []*model.RemoteUploadHandle
	UploadErr error
	ListErr   error
	Uploaded  []string
	Deleted   []string
	gets      int
}

func (s *StubFileStore) Upload(_ context.Context, localPath, displayName, mimeType string) (*model.RemoteUploadHandle, error) {
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	s.Uploaded = append(s.Uploaded, localPath)
	state := model.StateProcessing
	if len(s.States) > 0 {
		state = s.States[0]
	}
	return &model.RemoteUploadHandle{
		Name:     "files/stub-" + displayName,
		URI:      "https://files.stub/" + displayName,
		MIMEType: mimeType,
		State:    state,
	}, nil
}

func (s *StubFileStore) Get(_ context.Context, name string) (*model.RemoteUploadHandle, error) {
	s.gets++
	idx := s.gets
	if idx >= len(s.States) {
		idx = len(s.States) - 1
	}
	state := model.StateReady
	if idx >= 0 && len(s.States) > 0 {
		state = s.States[idx]
	}
	return &model.RemoteUploadHandle{Name: name, URI: "https://files.stub/" + name, MIMEType: "video/mp4", State: state}, nil
}

func (s *StubFileStore) Delete(_ context.Context, name string) error {
	s.Deleted = append(s.Deleted, name)
	return nil
}

func (s *StubFileStore) List(_ context.Context) ([]*model.RemoteUploadHandle, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Handles, nil
}

// StubToolchain satisfies the codec toolchain without running ffmpeg. Probe
// results come from Infos by path, falling back to Info; render failures are
// scripted per output base name.
type StubToolchain struct {
	Info       *media.VideoInfo
	Infos      map[string]*media.VideoInfo
	ProbeErrs  map[string]error
	RenderErrs map[string]error
	MuxErr     error

	Rendered  []string
	Concats   []string
	MuxOutput string
}

func (s *StubToolchain) Probe(_ context.Context, path string) (*media.VideoInfo, error) {
	if err := s.ProbeErrs[path]; err != nil {
		return nil, err
	}
	if info, ok := s.Infos[path]; ok {
		return info, nil
	}
	if s.Info != nil {
		return s.Info, nil
	}
	return nil, fmt.Errorf("no stub probe result for %s", path)
}

func (s *StubToolchain) RenderClip(_ context.Context, _, output string, _, _ int64, _ float64) error {
	if err := s.RenderErrs[filepath.Base(output)]; err != nil {
		return err
	}
	s.Rendered = append(s.Rendered, output)
	return nil
}

func (s *StubToolchain) Concat(_ context.Context, listFile, output string) error {
	s.Concats = append(s.Concats, listFile)
	return os.WriteFile(output, []byte("stub-concat"), 0o644)
}

func (s *StubToolchain) Mux(_ context.Context, _, _, output string) (string, error) {
	if s.MuxErr != nil {
		return s.MuxErr.Error(), s.MuxErr
	}
	s.MuxOutput = output
	return "", os.WriteFile(output, []byte("stub-mux"), 0o644)
}

// StubArchiver records archived objects and optionally signs download URLs.
type StubArchiver struct {
	Signer   bool
	StoreErr error
	SignErr  error
	Stored   []string
	Signed   []string
}

func (s *StubArchiver) Store(_ context.Context, _, objectName string) (string, error) {
	if s.StoreErr != nil {
		return "", s.StoreErr
	}
	s.Stored = append(s.Stored, objectName)
	return "gs://stub-bucket/" + objectName, nil
}

func (s *StubArchiver) SignedURL(objectName string, _ time.Duration) (string, error) {
	if s.SignErr != nil {
		return "", s.SignErr
	}
	s.Signed = append(s.Signed, objectName)
	return "https://signed.stub/" + objectName, nil
}

func (s *StubArchiver) CanSign() bool { return s.Signer }

// StubSynthesizer records the synthesis request and returns fixed bytes.
type StubSynthesizer struct {
	Text  string
	Voice cloud.Voice
	Audio []byte
	Err   error
	Calls int
}

func (s *StubSynthesizer) Synthesize(_ context.Context, text string, voice cloud.Voice) ([]byte, error) {
	s.Calls++
	s.Text = text
	s.Voice = voice
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Audio == nil {
		return []byte("stub-mp3"), nil
	}
	return s.Audio, nil
}
