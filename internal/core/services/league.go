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
// This file is the thin read-only proxy over the league's public stats API.
// The upstream wraps every collection in an envelope keyed by resource name
// ("sports", "teams", "people", ...); the proxy unwraps that envelope and
// returns the bare collection, which is all the frontend wants.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultLeagueBaseURL is the public MLB Stats API root used when the
// config leaves the base URL unset.
const DefaultLeagueBaseURL = "https://statsapi.mlb.com/api/v1"

// LeagueService proxies the league's public statistics API.
type LeagueService struct {
	baseURL     string
	logoURL     string
	headshotURL string
	client      *http.Client
}

// NewLeagueService builds the proxy. Empty URLs fall back to the public MLB
// endpoints.
func NewLeagueService(baseURL, logoURL, headshotURL string) *LeagueService {
	if baseURL == "" {
		baseURL = DefaultLeagueBaseURL
	}
	if logoURL == "" {
		logoURL = "https://www.mlbstatic.com/team-logos/%d.svg"
	}
	if headshotURL == "" {
		headshotURL = "https://img.mlbstatic.com/mlb-photos/image/upload/w_213,q_auto:best/v1/people/%d/headshot/67/current"
	}
	return &LeagueService{
		baseURL:     baseURL,
		logoURL:     logoURL,
		headshotURL: headshotURL,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// fetchCollection GETs path with query params and unwraps the named
// collection from the upstream envelope.
func (s *LeagueService) fetchCollection(ctx context.Context, path string, params url.Values, key string) ([]json.RawMessage, error) {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("league api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("league api returned %d for %s: %s", resp.StatusCode, path, body)
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding league api response: %w", err)
	}
	collectionRaw, ok := envelope[key]
	if !ok {
		return []json.RawMessage{}, nil
	}
	var collection []json.RawMessage
	if err := json.Unmarshal(collectionRaw, &collection); err != nil {
		return nil, fmt.Errorf("decoding league api %q collection: %w", key, err)
	}
	return collection, nil
}

// Sports lists the sports the league API covers.
func (s *LeagueService) Sports(ctx context.Context) ([]json.RawMessage, error) {
	return s.fetchCollection(ctx, "/sports", nil, "sports")
}

// Leagues lists the leagues for a sport.
func (s *LeagueService) Leagues(ctx context.Context, sportID string) ([]json.RawMessage, error) {
	params := url.Values{}
	if sportID != "" {
		params.Set("sportId", sportID)
	}
	return s.fetchCollection(ctx, "/leagues", params, "leagues")
}

// Seasons lists the seasons for a sport.
func (s *LeagueService) Seasons(ctx context.Context, sportID string) ([]json.RawMessage, error) {
	params := url.Values{}
	if sportID != "" {
		params.Set("sportId", sportID)
	}
	return s.fetchCollection(ctx, "/seasons/all", params, "seasons")
}

// Teams lists the teams for a sport and optional season.
func (s *LeagueService) Teams(ctx context.Context, sportID, season string) ([]json.RawMessage, error) {
	params := url.Values{}
	if sportID != "" {
		params.Set("sportId", sportID)
	}
	if season != "" {
		params.Set("season", season)
	}
	return s.fetchCollection(ctx, "/teams", params, "teams")
}

// Roster lists a team's roster.
func (s *LeagueService) Roster(ctx context.Context, teamID string) ([]json.RawMessage, error) {
	return s.fetchCollection(ctx, fmt.Sprintf("/teams/%s/roster", teamID), nil, "roster")
}

// Players lists the players for a sport and optional season.
func (s *LeagueService) Players(ctx context.Context, sportID, season string) ([]json.RawMessage, error) {
	if sportID == "" {
		sportID = "1"
	}
	params := url.Values{}
	if season != "" {
		params.Set("season", season)
	}
	return s.fetchCollection(ctx, fmt.Sprintf("/sports/%s/players", sportID), params, "people")
}

// Player fetches a single player record.
func (s *LeagueService) Player(ctx context.Context, playerID string) (json.RawMessage, error) {
	people, err := s.fetchCollection(ctx, fmt.Sprintf("/people/%s", playerID), nil, "people")
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("player %s not found", playerID)
	}
	return people[0], nil
}

// TeamLogoURL returns the static logo URL for a team id.
func (s *LeagueService) TeamLogoURL(teamID int) string {
	return fmt.Sprintf(s.logoURL, teamID)
}

// PlayerHeadshotURL returns the static headshot URL for a player id.
func (s *LeagueService) PlayerHeadshotURL(playerID int) string {
	return fmt.Sprintf(s.headshotURL, playerID)
}
