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

// Package cloud provides the external-collaborator clients. This file holds
// the hierarchical configuration loader and the retrying helper used for
// every generative-model call.
//
// Configuration loads in two layers: a base file (.env.toml) and an optional
// runtime-specific override (.env.<runtime>.toml), with the runtime selected
// by environment variable. Secrets (the Gemini API key) never live in TOML;
// they come from the process environment, optionally seeded from a local
// .env file via godotenv.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	EnvConfigFilePrefix = "HIGHLIGHT_CONFIG_PREFIX" // Directory holding the TOML files.
	EnvConfigRuntime    = "HIGHLIGHT_RUNTIME"       // Runtime layer: local, test, prod.
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	MaxRetries          = 3
)

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates baseConfig from the base TOML file and then overlays
// the runtime-specific file on top of it.
func LoadConfig(baseConfig interface{}) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}

	runtime := os.Getenv(EnvConfigRuntime)
	if runtime == "" {
		runtime = "local"
	}

	baseFile := prefix + ConfigFileBaseName + ConfigFileExtension
	envFile := prefix + ConfigFileBaseName + ConfigSeparator + runtime + ConfigFileExtension

	if fileExists(baseFile) {
		if _, err := toml.DecodeFile(baseFile, baseConfig); err != nil {
			slog.Error("failed to decode base configuration", "file", baseFile, "error", err)
			os.Exit(1)
		}
	}
	if fileExists(envFile) {
		if _, err := toml.DecodeFile(envFile, baseConfig); err != nil {
			slog.Error("failed to decode runtime configuration", "file", envFile, "error", err)
			os.Exit(1)
		}
	}
}

// LoadAPIKey resolves the Gemini API key, seeding the process environment
// from a local .env file when one exists. A missing key is a fatal startup
// condition, never a per-request error.
func LoadAPIKey() (string, error) {
	_ = godotenv.Load()
	key := os.Getenv(EnvGeminiAPIKey)
	if key == "" {
		return "", fmt.Errorf("%s is not set", EnvGeminiAPIKey)
	}
	return key, nil
}

// GenerateMultiModalResponse sends a multi-modal request through the
// quota-aware model, retrying transient failures up to MaxRetries with a
// short backoff, and records token usage on the provided counters.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model GenerativeResponder,
	content []*genai.Content) (string, error) {

	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		if tryCount < MaxRetries {
			if retryCounter != nil {
				retryCounter.Add(ctx, 1)
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(tryCount+1) * 2 * time.Second):
			}
			return GenerateMultiModalResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, content)
		}
		return "", err
	}

	if resp.UsageMetadata != nil {
		if inputTokenCounter != nil {
			inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		}
		if outputTokenCounter != nil {
			outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}
