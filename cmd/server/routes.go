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

// Package main registers the REST routes. Handlers stay thin: they validate
// the request, call one service or the workflow, and translate the typed
// pipeline errors onto HTTP status codes. Failure bodies are always
// {"error": "..."}.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/commands"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
	"github.com/diamond-district/go-highlight-reel/internal/core/services"
	"github.com/diamond-district/go-highlight-reel/internal/core/workflow"
)

// statusForError maps the pipeline error taxonomy onto HTTP status codes.
// Caller mistakes are 4xx; everything the caller cannot fix is a 500.
func statusForError(err error) int {
	var notFound *model.NotFoundError
	var badVoice *model.UnsupportedVoiceError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badVoice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	slog.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// VideoRouter registers upload, listing, deletion, and download of local
// videos.
func VideoRouter(r *gin.RouterGroup) {
	r.POST("/upload", func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request must carry a 'file' form field"})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer src.Close()

		name, err := state.mediaService.SaveUpload(file.Filename, src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Video '%s' uploaded successfully.", name),
		})
	})

	r.GET("/videos", func(c *gin.Context) {
		videos, err := state.mediaService.ListVideos()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"videos": videos})
	})

	r.DELETE("/videos/:filename", func(c *gin.Context) {
		filename := c.Param("filename")
		if err := state.mediaService.DeleteVideo(filename); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Video '%s' deleted.", filename),
		})
	})

	r.GET("/download/*file_path", func(c *gin.Context) {
		path, err := state.mediaService.ResolveDownload(c.Param("file_path"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.FileAttachment(path, filepath.Base(path))
	})
}

// RemoteFileRouter registers the admin endpoints over the remote inference
// file store. Runs clean up their own registrations; these exist to inspect
// and purge leftovers after crashes.
func RemoteFileRouter(r *gin.RouterGroup) {
	r.GET("/files", func(c *gin.Context) {
		handles, err := state.cloud.FileStore.List(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"files": handles})
	})

	r.DELETE("/files", func(c *gin.Context) {
		handles, err := state.cloud.FileStore.List(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		deleted := 0
		for _, handle := range handles {
			if err := state.cloud.FileStore.Delete(c.Request.Context(), handle.Name); err != nil {
				slog.Warn("failed to delete remote file", "file", handle.Name, "error", err)
				continue
			}
			deleted++
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "All remote files deleted.",
			"deleted": deleted,
		})
	})
}

// AnalyzeRouter registers the highlight pipeline endpoint.
func AnalyzeRouter(r *gin.RouterGroup) {
	r.POST("/analyze", func(c *gin.Context) {
		filename := c.PostForm("video_filename")
		if filename == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "video_filename is required"})
			return
		}
		if !state.mediaService.HasVideo(filename) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("Video '%s' not found in input folder.", filename),
			})
			return
		}

		narrate, _ := strconv.ParseBool(c.DefaultPostForm("narrate", "false"))
		params := &commands.RunParams{
			RunID:          uuid.NewString(),
			SourceFilename: filename,
			PlayerName:     c.PostForm("player_name"),
			TeamName:       c.PostForm("team_name"),
			Genre:          c.PostForm("genre"),
			Narrate:        narrate,
			Language:       c.DefaultPostForm("language", "en"),
			Gender:         c.DefaultPostForm("gender", "female"),
		}

		// The voice pair is validated up front so a bad request never
		// starts a multi-minute pipeline run.
		if params.Narrate {
			if _, err := cloud.ResolveVoice(params.Language, params.Gender); err != nil {
				abortWithError(c, err)
				return
			}
		}

		result, err := state.highlightWorkflow.Run(c.Request.Context(), params)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, analyzeResponse(result))
	})
}

// analyzeResponse shapes a finished run for the client. The timestamps field
// carries the full moments envelope, not a bare array.
func analyzeResponse(result *workflow.RunResult) gin.H {
	response := gin.H{
		"message":            "Analysis complete.",
		"timestamps":         result.Moments,
		"output_merged_file": result.MergedFile,
	}
	if result.Commentary != nil {
		response["commentary"] = result.Commentary
	}
	if result.AudioFile != "" {
		response["commentary_audio"] = result.AudioFile
	}
	if result.FinalVideo != "" {
		response["final_video"] = result.FinalVideo
	}
	if result.ArchiveURL != "" {
		response["archive_url"] = result.ArchiveURL
	}
	return response
}

// LeagueRouter registers the read-only league statistics proxy.
func LeagueRouter(r *gin.RouterGroup) {
	league := r.Group("/league")
	{
		league.GET("/sports", func(c *gin.Context) {
			sports, err := state.leagueService.Sports(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"sports": sports})
		})

		league.GET("/leagues", func(c *gin.Context) {
			leagues, err := state.leagueService.Leagues(c.Request.Context(), c.Query("sport_id"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"leagues": leagues})
		})

		league.GET("/seasons", func(c *gin.Context) {
			seasons, err := state.leagueService.Seasons(c.Request.Context(), c.Query("sport_id"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"seasons": seasons})
		})

		league.GET("/teams", func(c *gin.Context) {
			teams, err := state.leagueService.Teams(c.Request.Context(), c.Query("sport_id"), c.Query("season"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"teams": teams})
		})

		league.GET("/teams/:id/roster", func(c *gin.Context) {
			roster, err := state.leagueService.Roster(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"roster": roster})
		})

		league.GET("/teams/:id/logo", func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "team id must be numeric"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": state.leagueService.TeamLogoURL(id)})
		})

		league.GET("/players", func(c *gin.Context) {
			players, err := state.leagueService.Players(c.Request.Context(), c.Query("sport_id"), c.Query("season"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"players": players})
		})

		league.GET("/players/:id", func(c *gin.Context) {
			player, err := state.leagueService.Player(c.Request.Context(), c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"player": player})
		})

		league.GET("/players/:id/headshot", func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "player id must be numeric"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": state.leagueService.PlayerHeadshotURL(id)})
		})
	}
}

// AnalyticsRouter registers the run analytics endpoints over BigQuery.
func AnalyticsRouter(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/runs", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
			if err != nil {
				limit = 50
			}
			runs, err := state.analyticsService.RecentRuns(c.Request.Context(), limit)
			if err != nil {
				analyticsError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"runs": runs})
		})

		analytics.GET("/runs/summary", func(c *gin.Context) {
			summary, err := state.analyticsService.Aggregate(c.Request.Context())
			if err != nil {
				analyticsError(c, err)
				return
			}
			c.JSON(http.StatusOK, summary)
		})
	}
}

func analyticsError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrAnalyticsDisabled) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
