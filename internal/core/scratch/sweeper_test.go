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

package scratch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/scratch"
)

func TestSweepRemovesOnlyStaleRunDirectories(t *testing.T) {
	root := t.TempDir()

	stale := filepath.Join(root, scratch.DirPrefix+"old-run")
	fresh := filepath.Join(root, scratch.DirPrefix+"new-run")
	other := filepath.Join(root, "unrelated")
	for _, dir := range []string{stale, fresh, other} {
		assert.NoError(t, os.Mkdir(dir, 0o755))
	}
	assert.NoError(t, os.WriteFile(filepath.Join(stale, "clip_0.mp4"), []byte("x"), 0o644))

	// Age the stale directory past the one-hour limit.
	old := time.Now().Add(-2 * time.Hour)
	assert.NoError(t, os.Chtimes(stale, old, old))

	scratch.NewSweeper(root, time.Hour).Sweep()

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.DirExists(t, fresh)
	assert.DirExists(t, other)
}

func TestSweepIgnoresPlainFilesWithPrefix(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, scratch.DirPrefix+"not-a-dir")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	assert.NoError(t, os.Chtimes(file, old, old))

	scratch.NewSweeper(root, time.Hour).Sweep()

	assert.FileExists(t, file)
}
