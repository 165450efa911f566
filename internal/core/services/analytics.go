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
// This file implements the analytics service over the persisted highlight
// runs in BigQuery: recent-run listings plus count aggregations by team,
// player, and play type.
package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// CountBucket is one row of a grouped count aggregation.
type CountBucket struct {
	Label    string `json:"label" bigquery:"label"`
	RunCount int64  `json:"run_count" bigquery:"run_count"`
}

// RunAnalytics is the full aggregation payload for the analytics endpoint.
type RunAnalytics struct {
	TotalRuns int64         `json:"total_runs"`
	ByTeam    []CountBucket `json:"by_team"`
	ByPlayer  []CountBucket `json:"by_player"`
	ByGenre   []CountBucket `json:"by_genre"`
}

// AnalyticsService answers aggregate questions about past highlight runs.
type AnalyticsService struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewAnalyticsService wires the service to the configured runs table. A nil
// client produces a service whose calls report the surface as disabled.
func NewAnalyticsService(client *bigquery.Client, dataset string, table string) *AnalyticsService {
	return &AnalyticsService{client: client, dataset: dataset, table: table}
}

// ErrAnalyticsDisabled reports that no BigQuery project is configured.
var ErrAnalyticsDisabled = errors.New("run analytics requires a configured BigQuery project")

func (s *AnalyticsService) qualifiedTable() string {
	return fmt.Sprintf("%s.%s.%s", s.client.Project(), s.dataset, s.table)
}

// RecentRuns returns the latest limit runs, newest first.
func (s *AnalyticsService) RecentRuns(ctx context.Context, limit int) ([]model.HighlightRun, error) {
	if s.client == nil {
		return nil, ErrAnalyticsDisabled
	}
	if limit <= 0 {
		limit = 50
	}

	query := s.client.Query(fmt.Sprintf(QryRecentRuns, s.qualifiedTable(), limit))
	it, err := query.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading recent runs: %w", err)
	}

	runs := make([]model.HighlightRun, 0)
	for {
		var run model.HighlightRun
		err := it.Next(&run)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating recent runs: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Aggregate computes the grouped run counts for the analytics endpoint.
func (s *AnalyticsService) Aggregate(ctx context.Context) (*RunAnalytics, error) {
	if s.client == nil {
		return nil, ErrAnalyticsDisabled
	}

	out := &RunAnalytics{}
	groups := []struct {
		query string
		dest  *[]CountBucket
	}{
		{QryRunCountsByTeam, &out.ByTeam},
		{QryRunCountsByPlayer, &out.ByPlayer},
		{QryRunCountsByGenre, &out.ByGenre},
	}
	for _, group := range groups {
		buckets, err := s.countBuckets(ctx, group.query)
		if err != nil {
			return nil, err
		}
		*group.dest = buckets
	}

	totals, err := s.countBuckets(ctx, QryRunTotal)
	if err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		out.TotalRuns = totals[0].RunCount
	}
	return out, nil
}

func (s *AnalyticsService) countBuckets(ctx context.Context, queryFormat string) ([]CountBucket, error) {
	query := s.client.Query(fmt.Sprintf(queryFormat, s.qualifiedTable()))
	it, err := query.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading run aggregation: %w", err)
	}

	buckets := make([]CountBucket, 0)
	for {
		var bucket CountBucket
		err := it.Next(&bucket)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating run aggregation: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}
