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

// Package main contains the setup and initialization logic for the server's
// shared state: configuration, external clients, the application services,
// the highlight workflow, and the scratch sweeper.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/media"
	"github.com/diamond-district/go-highlight-reel/internal/core/scratch"
	"github.com/diamond-district/go-highlight-reel/internal/core/services"
	"github.com/diamond-district/go-highlight-reel/internal/core/workflow"
)

// StateManager holds the shared dependencies of the server. One instance is
// built at startup; the route handlers read from it and never mutate it.
type StateManager struct {
	config            *cloud.Config
	cloud             *cloud.ServiceClients
	mediaService      *services.MediaService
	leagueService     *services.LeagueService
	analyticsService  *services.AnalyticsService
	highlightWorkflow *workflow.HighlightWorkflow
	sweeper           *scratch.Sweeper
}

var state = &StateManager{}

// SetupOS points the configuration loader at the configs directory. The
// runtime layer is only defaulted so a deployed HIGHLIGHT_RUNTIME wins.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
		return err
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the layered TOML configuration exactly once.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to set up config environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState builds every shared dependency: cloud clients, the media and
// league services, analytics, the pipeline, and the sweeper.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.mediaService, err = services.NewMediaService(
		config.Storage.InputFolder, config.Storage.OutputFolder)
	if err != nil {
		panic(err)
	}

	state.leagueService = services.NewLeagueService(
		config.LeagueAPI.BaseURL,
		config.LeagueAPI.LogoURL,
		config.LeagueAPI.HeadshotURL)

	state.analyticsService = services.NewAnalyticsService(
		cloudClients.BigQueryClient,
		config.BigQueryDataSource.DatasetName,
		config.BigQueryDataSource.RunsTable)

	toolchain := media.NewToolchain(config.Codec.FFmpegPath, config.Codec.FFprobePath)
	state.highlightWorkflow = workflow.NewHighlightWorkflow(config, cloudClients, toolchain)

	state.sweeper = scratch.NewSweeper("",
		time.Duration(config.Storage.MaxScratchAgeMin)*time.Minute)
	if err := state.sweeper.Start(config.Storage.SweepSchedule); err != nil {
		panic(err)
	}
}
