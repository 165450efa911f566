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

// Package cloud provides the external-collaborator clients. This file is the
// dependency container: it initializes every external client once at startup
// and hands them out as a single ServiceClients struct. The generative
// client (and its API key) is mandatory; the GCP persistence surfaces
// (BigQuery, Storage, Pub/Sub, IAM) initialize only when a project id is
// configured, so the service still runs in a purely local mode.
package cloud

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"google.golang.org/genai"
)

// ServiceClients is the container for every external connection the service
// holds. It is built once in main and passed into each component explicitly.
type ServiceClients struct {
	GenAIClient    *genai.Client
	FileStore      RemoteFileStore
	HighlightModel *QuotaAwareGenerativeAIModel
	TTSClient      *texttospeech.Client
	Synthesizer    SpeechSynthesizer
	StorageClient  *storage.Client
	BigQueryClient *bigquery.Client
	PubsubClient   *pubsub.Client
	IAMClient      *credentials.IamCredentialsClient
}

// Close releases every client the container holds. Safe to call on a
// partially initialized container.
func (c *ServiceClients) Close() {
	if c.TTSClient != nil {
		_ = c.TTSClient.Close()
	}
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.BigQueryClient != nil {
		_ = c.BigQueryClient.Close()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
	if c.IAMClient != nil {
		_ = c.IAMClient.Close()
	}
}

// NewCloudServiceClients initializes the collaborator clients from config.
// A missing Gemini API key fails here, at startup, not on the first request.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	apiKey, err := LoadAPIKey()
	if err != nil {
		return nil, err
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	gen := config.Generative
	contentConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](gen.Temperature),
		TopP:              genai.Ptr[float32](gen.TopP),
		TopK:              genai.Ptr[float32](gen.TopK),
		MaxOutputTokens:   gen.MaxTokens,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: gen.SystemInstructions}}},
		SafetySettings:    DefaultSafetySettings,
		ResponseMIMEType:  gen.OutputFormat,
	}

	out := &ServiceClients{
		GenAIClient:    gc,
		FileStore:      NewGenAIFileStore(gc),
		HighlightModel: NewQuotaAwareModel(contentConfig, gen.Model, gc.Models, gen.RateLimit),
	}

	ttsClient, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	out.TTSClient = ttsClient
	out.Synthesizer = NewTTSSynthesizer(ttsClient)

	// Persistence, archive, and notification surfaces are optional.
	if projectId := config.Application.GoogleProjectId; projectId != "" {
		if out.StorageClient, err = storage.NewClient(ctx); err != nil {
			return nil, err
		}
		if out.BigQueryClient, err = bigquery.NewClient(ctx, projectId); err != nil {
			return nil, err
		}
		if out.PubsubClient, err = pubsub.NewClient(ctx, projectId); err != nil {
			return nil, err
		}
		if out.IAMClient, err = credentials.NewIamCredentialsClient(ctx); err != nil {
			return nil, err
		}
	}

	return out, nil
}
