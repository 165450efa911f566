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

// Package scratch manages the per-run scratch directories. Runs normally
// delete their own scratch on the way out, but a crashed process or a kill
// mid-run leaves orphans behind; the sweeper removes any run directory older
// than the configured age on a cron schedule.
package scratch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DirPrefix marks a per-run scratch directory under the system temp root.
const DirPrefix = "highlight-"

// Sweeper periodically removes orphaned run directories.
type Sweeper struct {
	root   string
	maxAge time.Duration
	cron   *cron.Cron
}

// NewSweeper builds a sweeper over root (the system temp dir when empty)
// that removes run directories older than maxAge.
func NewSweeper(root string, maxAge time.Duration) *Sweeper {
	if root == "" {
		root = os.TempDir()
	}
	return &Sweeper{root: root, maxAge: maxAge, cron: cron.New()}
}

// Start schedules Sweep on the given cron spec (e.g. "@every 1h") and kicks
// off the scheduler.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler. Any sweep in flight finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep removes every run directory whose modification time is older than
// the age limit. Failures are logged and skipped.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		slog.Warn("scratch sweep failed to read root", "root", s.root, "error", err)
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), DirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("scratch sweep failed to remove directory", "dir", dir, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		slog.Info("scratch sweep removed orphaned run directories", "count", removed)
	}
}
