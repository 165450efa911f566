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

// Package workflow composes the pipeline commands into the highlight
// workflows. The workflow owns the run lifecycle: it creates the scratch
// directory, seeds the shared context, executes the chain, and releases
// remote registrations and scratch files no matter how the chain ended.
//
// Two chains are built at startup, one plain and one narrated; each request
// picks by its narrate flag. The narrated chain re-ingests the assembled
// reel so the commentary pass sees exactly the frames the viewer will.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"cloud.google.com/go/pubsub"

	"github.com/diamond-district/go-highlight-reel/internal/cloud"
	"github.com/diamond-district/go-highlight-reel/internal/core/commands"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
)

// RunResult is what a finished highlight run hands back to the HTTP layer.
type RunResult struct {
	Moments    *model.MomentSet
	Commentary []model.CommentaryEntry
	MergedFile string
	AudioFile  string
	FinalVideo string
	ArchiveURL string
}

// HighlightWorkflow is the top-level pipeline for one video analysis run.
type HighlightWorkflow struct {
	config             *cloud.Config
	clients            *cloud.ServiceClients
	toolchain          commands.CodecToolchain
	momentsTemplate    *template.Template
	commentaryTemplate *template.Template
	chain              cor.Chain
	narratedChain      cor.Chain
	cleanup            *commands.MediaCleanup
}

// NewHighlightWorkflow compiles the prompt templates and builds both chains.
// Template compilation failure is fatal; the service cannot run without its
// prompts.
func NewHighlightWorkflow(
	config *cloud.Config,
	clients *cloud.ServiceClients,
	toolchain commands.CodecToolchain) *HighlightWorkflow {

	momentsPrompt := config.PromptTemplates.MomentsPrompt
	if momentsPrompt == "" {
		momentsPrompt = DefaultMomentsPrompt
	}
	commentaryPrompt := config.PromptTemplates.CommentaryPrompt
	if commentaryPrompt == "" {
		commentaryPrompt = DefaultCommentaryPrompt
	}

	momentsTemplate, err := template.New("moments-template").Parse(momentsPrompt)
	if err != nil {
		panic(err)
	}
	commentaryTemplate, err := template.New("commentary-template").Parse(commentaryPrompt)
	if err != nil {
		panic(err)
	}

	w := &HighlightWorkflow{
		config:             config,
		clients:            clients,
		toolchain:          toolchain,
		momentsTemplate:    momentsTemplate,
		commentaryTemplate: commentaryTemplate,
		cleanup:            commands.NewMediaCleanup("cleanup-remote-files", clients.FileStore),
	}
	w.chain = w.buildChain("highlight-pipeline", false)
	w.narratedChain = w.buildChain("highlight-pipeline-narrated", true)
	return w
}

// buildChain assembles the command sequence for one pipeline variant.
func (w *HighlightWorkflow) buildChain(name string, narrated bool) cor.Chain {
	out := cor.NewBaseChain(name)

	out.AddCommand(commands.NewMediaIngest(
		"source-ingest",
		w.clients.FileStore,
		w.config.Ingestion.PollIntervalSeconds,
		w.config.Ingestion.MaxPollAttempts))
	out.AddCommand(commands.NewMomentExtractor(
		"extract-moments", w.clients.HighlightModel, w.momentsTemplate))
	out.AddCommand(commands.NewMomentsJsonToStruct("parse-moments"))
	out.AddCommand(commands.NewSegmentRenderer("render-segments", w.toolchain))
	out.AddCommand(commands.NewAssembler(
		"assemble-reel", w.toolchain, w.config.Storage.OutputFolder))

	if narrated {
		out.AddCommand(commands.NewMediaIngest(
			"reel-ingest",
			w.clients.FileStore,
			w.config.Ingestion.PollIntervalSeconds,
			w.config.Ingestion.MaxPollAttempts))
		out.AddCommand(commands.NewCommentaryCreator(
			"create-commentary", w.clients.HighlightModel, w.commentaryTemplate))
		out.AddCommand(commands.NewCommentaryJsonToStruct("parse-commentary"))
		out.AddCommand(commands.NewSpeechSynthesizer(
			"synthesize-narration", w.clients.Synthesizer))
		out.AddCommand(commands.NewNarrationMux(
			"mux-narration", w.toolchain, w.config.Storage.OutputFolder))
	}

	// Post-processing surfaces; each skips itself when unconfigured.
	out.AddCommand(commands.NewArchivePublisher("archive-final-video", w.archiver()))
	out.AddCommand(commands.NewRunPersistToBigQuery(
		"persist-run",
		w.clients.BigQueryClient,
		w.config.BigQueryDataSource.DatasetName,
		w.config.BigQueryDataSource.RunsTable))
	out.AddCommand(commands.NewCompletionNotifier("notify-completion", w.completionTopic()))

	return out
}

func (w *HighlightWorkflow) archiver() commands.ArchiveStore {
	if w.clients.StorageClient == nil || w.config.Storage.ArchiveBucket == "" {
		return nil
	}
	return &cloud.Archiver{
		StorageClient: w.clients.StorageClient,
		IAMClient:     w.clients.IAMClient,
		Bucket:        w.config.Storage.ArchiveBucket,
		SignerEmail:   w.config.Application.SignerEmail,
	}
}

func (w *HighlightWorkflow) completionTopic() *pubsub.Topic {
	if w.clients.PubsubClient == nil || w.config.Application.CompletionTopic == "" {
		return nil
	}
	return w.clients.PubsubClient.Topic(w.config.Application.CompletionTopic)
}

// Run executes one highlight run end to end and returns the results the
// HTTP layer reports. Scratch and remote registrations are released before
// Run returns, success or not.
func (w *HighlightWorkflow) Run(ctx context.Context, params *commands.RunParams) (*RunResult, error) {
	scratchDir := filepath.Join(os.TempDir(), "highlight-"+params.RunID)
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	if err := os.MkdirAll(w.config.Storage.OutputFolder, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	source := &model.MediaAsset{
		LocalPath:        filepath.Join(w.config.Storage.InputFolder, params.SourceFilename),
		OriginalFilename: params.SourceFilename,
	}

	corCtx := cor.NewBaseContext()
	corCtx.SetContext(ctx)
	corCtx.AddTempFile(scratchDir)
	corCtx.Add(commands.KeyParams, params)
	corCtx.Add(commands.KeyScratchDir, scratchDir)
	corCtx.Add(commands.KeySourceAsset, source)
	corCtx.Add(cor.CtxIn, source)
	defer corCtx.Close()

	chain := w.chain
	if params.Narrate {
		chain = w.narratedChain
	}
	chain.Execute(corCtx)
	w.cleanup.Execute(corCtx)

	if corCtx.HasErrors() {
		return nil, corCtx.FirstError()
	}

	result := &RunResult{}
	if set, ok := corCtx.Get(commands.KeyMoments).(*model.MomentSet); ok {
		result.Moments = set
	}
	if entries, ok := corCtx.Get(commands.KeyCommentary).([]model.CommentaryEntry); ok {
		result.Commentary = entries
	}
	if merged, ok := corCtx.Get(commands.KeyAssembled).(*model.MediaAsset); ok {
		result.MergedFile = merged.LocalPath
	}
	if audio, ok := corCtx.Get(commands.KeyAudioFile).(string); ok {
		result.AudioFile = audio
	}
	if final, ok := corCtx.Get(commands.KeyFinalVideo).(string); ok {
		result.FinalVideo = final
	}
	if url, ok := corCtx.Get(commands.KeyArchiveURL).(string); ok {
		result.ArchiveURL = url
	}
	return result, nil
}
