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

// Package workflow_test covers the run lifecycle around the command chain:
// scratch directory handling, error propagation, and remote registration
// cleanup. The pipeline interior is covered by the commands package tests.
package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/commands"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
	"github.com/diamond-district/go-highlight-reel/internal/core/workflow"
	"github.com/diamond-district/go-highlight-reel/internal/testutil"
)

const tName = "github.com/diamond-district/go-highlight-reel/tests/workflow"

var logger = otelslog.NewLogger(tName)

func TestMain(m *testing.M) {
	logger.Info("starting workflow test suite")
	os.Exit(m.Run())
}

func newTestWorkflow(t *testing.T, store *testutil.StubFileStore) (*workflow.HighlightWorkflow, *cloud.Config) {
	t.Helper()
	config := cloud.NewConfig()
	config.Storage.InputFolder = t.TempDir()
	config.Storage.OutputFolder = t.TempDir()
	config.Ingestion.PollIntervalSeconds = 1
	config.Ingestion.MaxPollAttempts = 2

	clients := &cloud.ServiceClients{FileStore: store}
	return workflow.NewHighlightWorkflow(config, clients, nil), config
}

func TestNewHighlightWorkflowUsesDefaultPrompts(t *testing.T) {
	w, _ := newTestWorkflow(t, &testutil.StubFileStore{})
	assert.NotNil(t, w)
}

func TestRunFailsCleanlyOnMissingSource(t *testing.T) {
	w, _ := newTestWorkflow(t, &testutil.StubFileStore{})

	params := &commands.RunParams{RunID: "missing-source", SourceFilename: "ghost.mp4"}
	result, err := w.Run(context.Background(), params)

	assert.Nil(t, result)
	assert.NotNil(t, err)
	var notFound *model.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	// The scratch directory must not outlive the run.
	_, statErr := os.Stat(filepath.Join(os.TempDir(), "highlight-missing-source"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReleasesRemoteRegistrationsOnFailure(t *testing.T) {
	store := &testutil.StubFileStore{
		States: []model.ProcessingState{model.StateFailed},
	}
	w, config := newTestWorkflow(t, store)

	source := filepath.Join(config.Storage.InputFolder, "game.mp4")
	assert.Nil(t, os.WriteFile(source, []byte("not-a-video"), 0o644))

	params := &commands.RunParams{RunID: "remote-failure", SourceFilename: "game.mp4"}
	_, err := w.Run(context.Background(), params)

	assert.NotNil(t, err)
	var remoteErr *model.RemoteProcessingError
	assert.True(t, errors.As(err, &remoteErr))

	// The upload was registered, so cleanup must have deleted it even
	// though the run failed.
	assert.Equal(t, 1, len(store.Deleted))
}
