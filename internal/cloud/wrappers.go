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

// Package cloud provides the external-collaborator clients. This file wraps
// the generative model client with a token-bucket rate limiter so concurrent
// requests cannot blow through the inference quota. The wrapper blocks on
// the limiter rather than spinning, so cancellation composes with the rest
// of the request.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GenerativeResponder is the narrow surface the pipeline commands depend on.
// Tests swap in a deterministic stub; production wires the quota-aware
// Gemini wrapper.
type GenerativeResponder interface {
	GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel decorates the Gemini model handle with a rate
// limiter. All generation calls in the service go through this wrapper.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             *genai.Models
	limiter                 *rate.Limiter
}

// NewQuotaAwareModel wraps a model handle with a limiter allowing
// requestsPerSecond sustained calls.
func NewQuotaAwareModel(cfg *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: cfg,
		ModelName:               name,
		ModelHandle:             handle,
		limiter:                 rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSecond)), requestsPerSecond),
	}
}

// GenerateContent waits for limiter headroom, then forwards the call to the
// underlying model.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}
