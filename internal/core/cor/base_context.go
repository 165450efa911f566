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

package cor

import (
	"context"
	"log/slog"
	"os"
)

// BaseContext is the default Context implementation. It is not safe for
// concurrent use; a workflow execution owns its context exclusively.
type BaseContext struct {
	ctx       context.Context
	data      map[string]interface{}
	errors    map[string]error
	errorKeys []string
	tempFiles []string
}

// NewBaseContext returns an empty context bound to context.Background.
func NewBaseContext() *BaseContext {
	return &BaseContext{
		ctx:       context.Background(),
		data:      make(map[string]interface{}),
		errors:    make(map[string]error),
		tempFiles: make([]string, 0),
	}
}

func (b *BaseContext) SetContext(ctx context.Context) {
	b.ctx = ctx
}

func (b *BaseContext) GetContext() context.Context {
	return b.ctx
}

func (b *BaseContext) Add(key string, value interface{}) Context {
	b.data[key] = value
	return b
}

func (b *BaseContext) Get(key string) interface{} {
	return b.data[key]
}

func (b *BaseContext) Remove(key string) {
	delete(b.data, key)
}

func (b *BaseContext) AddError(key string, err error) {
	if _, seen := b.errors[key]; !seen {
		b.errorKeys = append(b.errorKeys, key)
	}
	b.errors[key] = err
}

func (b *BaseContext) GetErrors() map[string]error {
	return b.errors
}

func (b *BaseContext) FirstError() error {
	if len(b.errorKeys) == 0 {
		return nil
	}
	return b.errors[b.errorKeys[0]]
}

func (b *BaseContext) HasErrors() bool {
	return len(b.errors) > 0
}

func (b *BaseContext) AddTempFile(file string) {
	b.tempFiles = append(b.tempFiles, file)
}

func (b *BaseContext) GetTempFiles() []string {
	return b.tempFiles
}

// Close removes every tracked scratch file. Failures are logged and skipped
// so one stubborn file does not leak the rest.
func (b *BaseContext) Close() {
	for _, file := range b.tempFiles {
		if err := os.RemoveAll(file); err != nil {
			slog.Warn("failed to remove scratch file", "file", file, "error", err)
		}
	}
	b.tempFiles = b.tempFiles[:0]
}
