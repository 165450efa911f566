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

// Package commands_test exercises the pipeline commands against the
// deterministic stubs from testutil; no network, no codec tools.
package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/commands"
	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
	"github.com/diamond-district/go-highlight-reel/internal/core/media"
	"github.com/diamond-district/go-highlight-reel/internal/core/model"
	"github.com/diamond-district/go-highlight-reel/internal/testutil"
)

func newRunContext(t *testing.T) (cor.Context, string) {
	t.Helper()
	scratch := t.TempDir()
	ctx := cor.NewBaseContext()
	ctx.Add(commands.KeyParams, &commands.RunParams{
		RunID:          "test-run",
		SourceFilename: "game.mp4",
		PlayerName:     "Smith",
		Language:       "en",
		Gender:         "female",
	})
	ctx.Add(commands.KeyScratchDir, scratch)
	return ctx, scratch
}

func writeTestVideo(t *testing.T, dir string) *model.MediaAsset {
	t.Helper()
	path := filepath.Join(dir, "game.mp4")
	assert.NoError(t, os.WriteFile(path, []byte("not-really-a-video"), 0o644))
	return &model.MediaAsset{LocalPath: path, OriginalFilename: "game.mp4"}
}

func TestMediaIngestRejectsMissingFile(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(cor.CtxIn, &model.MediaAsset{
		LocalPath:        filepath.Join(scratch, "nope.mp4"),
		OriginalFilename: "nope.mp4",
	})

	cmd := commands.NewMediaIngest("ingest", &testutil.StubFileStore{}, 1, 3)
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var notFound *model.NotFoundError
	assert.ErrorAs(t, ctx.FirstError(), &notFound)
}

func TestMediaIngestPollsToReady(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(cor.CtxIn, writeTestVideo(t, scratch))

	store := &testutil.StubFileStore{
		States: []model.ProcessingState{model.StateProcessing, model.StateReady},
	}
	cmd := commands.NewMediaIngest("ingest", store, 1, 5)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	handle, ok := ctx.Get(cor.CtxOut).(*model.RemoteUploadHandle)
	assert.True(t, ok)
	assert.Equal(t, model.StateReady, handle.State)

	// The registration must be tracked for end-of-run cleanup.
	handles, _ := ctx.Get(commands.KeyRemoteHandles).([]*model.RemoteUploadHandle)
	assert.Equal(t, 1, len(handles))
}

func TestMediaIngestSurfacesRemoteFailure(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(cor.CtxIn, writeTestVideo(t, scratch))

	store := &testutil.StubFileStore{
		States: []model.ProcessingState{model.StateFailed},
	}
	cmd := commands.NewMediaIngest("ingest", store, 1, 5)
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var remoteErr *model.RemoteProcessingError
	assert.ErrorAs(t, ctx.FirstError(), &remoteErr)
}

func TestMomentExtractionAndParsing(t *testing.T) {
	ctx, _ := newRunContext(t)
	ctx.Add(cor.CtxIn, &model.RemoteUploadHandle{
		Name:     "files/stub-game",
		URI:      "https://files.stub/game",
		MIMEType: "video/mp4",
		State:    model.StateReady,
	})

	responder := &testutil.StubResponder{Responses: []string{
		"```json\n{\"moments\": [{\"start_time\": \"0:02\", \"end_time\": \"0:05\", \"description\": \"homer\"}]}\n```",
	}}
	tmpl := template.Must(template.New("t").Parse(
		"Find plays by {{.PLAYER_NAME}} ({{.TEAM_NAME}}, {{.GENRE}}). Example: {{.EXAMPLE_JSON}}"))

	chain := cor.NewBaseChain("extract")
	chain.AddCommand(commands.NewMomentExtractor("extract-moments", responder, tmpl))
	chain.AddCommand(commands.NewMomentsJsonToStruct("parse-moments"))
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, 1, responder.Calls)
	set, ok := ctx.Get(commands.KeyMoments).(*model.MomentSet)
	assert.True(t, ok)
	assert.Equal(t, 1, len(set.Moments))
	assert.Equal(t, "0:02", set.Moments[0].StartTime)
}

func TestMomentParsingRejectsGarbage(t *testing.T) {
	ctx, _ := newRunContext(t)
	ctx.Add(cor.CtxIn, "no json in here at all")

	cmd := commands.NewMomentsJsonToStruct("parse-moments")
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var parseErr *model.ExtractionParseError
	assert.ErrorAs(t, ctx.FirstError(), &parseErr)
}

func TestSpeechSynthesizerJoinsCommentaryInOrder(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(cor.CtxIn, []model.CommentaryEntry{
		{TimeSeconds: 0, Text: "Bottom of the fourth."},
		{TimeSeconds: 6.5, Text: "That ball is gone!"},
	})

	stub := &testutil.StubSynthesizer{}
	cmd := commands.NewSpeechSynthesizer("synthesize", stub)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, 1, stub.Calls)
	assert.Equal(t, "Bottom of the fourth. That ball is gone!", stub.Text)
	assert.Equal(t, "en-US-Neural2-F", stub.Voice.Name)

	audioPath, ok := ctx.Get(commands.KeyAudioFile).(string)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(scratch, "narration.mp3"), audioPath)
	content, err := os.ReadFile(audioPath)
	assert.NoError(t, err)
	assert.Equal(t, []byte("stub-mp3"), content)
}

func TestSpeechSynthesizerRejectsUnknownVoiceBeforeSynthesis(t *testing.T) {
	ctx, _ := newRunContext(t)
	params := ctx.Get(commands.KeyParams).(*commands.RunParams)
	params.Language = "de"
	ctx.Add(cor.CtxIn, []model.CommentaryEntry{{TimeSeconds: 0, Text: "Hallo"}})

	stub := &testutil.StubSynthesizer{}
	cmd := commands.NewSpeechSynthesizer("synthesize", stub)
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var voiceErr *model.UnsupportedVoiceError
	assert.ErrorAs(t, ctx.FirstError(), &voiceErr)
	assert.Equal(t, 0, stub.Calls)
}

func TestSegmentRendererFrameMathAndPerMomentSkips(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(commands.KeySourceAsset, writeTestVideo(t, scratch))
	ctx.Add(cor.CtxIn, &model.MomentSet{Moments: []model.Moment{
		{StartTime: "0:02", EndTime: "0:05", Description: "homer"},
		{StartTime: "0:06.01", EndTime: "0:06.02", Description: "rounds to zero frames"},
		{StartTime: "0:07", EndTime: "0:08", Description: "render fails"},
	}})

	stub := &testutil.StubToolchain{
		Info:       &media.VideoInfo{FrameRate: 30, FrameCount: 300, Width: 1280, Height: 720},
		RenderErrs: map[string]error{"clip_2.mp4": errors.New("decode error")},
	}
	cmd := commands.NewSegmentRenderer("render", stub)
	cmd.Execute(ctx)

	// Zero-frame and failed moments are skipped, not fatal.
	assert.False(t, ctx.HasErrors())
	clips, ok := ctx.Get(commands.KeyClips).([]*model.ClipFile)
	assert.True(t, ok)
	assert.Equal(t, 1, len(clips))
	assert.Equal(t, int64(90), clips[0].FrameCount)
	assert.Equal(t, 0, clips[0].Ordinal)
	assert.Equal(t, filepath.Join(scratch, "clip_0.mp4"), clips[0].Path)
}

func TestAssemblerSumsClipFrameCounts(t *testing.T) {
	ctx, scratch := newRunContext(t)
	output := t.TempDir()
	clips := []*model.ClipFile{
		{Path: filepath.Join(scratch, "clip_0.mp4"), Ordinal: 0, FrameCount: 90},
		{Path: filepath.Join(scratch, "clip_1.mp4"), Ordinal: 1, FrameCount: 60},
		{Path: filepath.Join(scratch, "clip_2.mp4"), Ordinal: 2, FrameCount: 30},
	}
	ctx.Add(cor.CtxIn, clips)

	stub := &testutil.StubToolchain{
		Info: &media.VideoInfo{FrameRate: 30, Width: 1280, Height: 720},
	}
	cmd := commands.NewAssembler("assemble", stub, output)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	merged, ok := ctx.Get(commands.KeyAssembled).(*model.MediaAsset)
	assert.True(t, ok)
	assert.Equal(t, int64(180), merged.FrameCount)
	assert.Equal(t, 30.0, merged.FrameRate)
	assert.Equal(t, 1280, merged.Width)
	assert.Equal(t, filepath.Join(output, "test-run_merged.mp4"), merged.LocalPath)

	// The concat list preserves clip order, not lexical order.
	list, err := os.ReadFile(filepath.Join(scratch, "concat.txt"))
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(list)), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Contains(t, lines[0], "clip_0.mp4")
	assert.Contains(t, lines[2], "clip_2.mp4")
}

func TestAssemblerRejectsParameterMismatch(t *testing.T) {
	ctx, scratch := newRunContext(t)
	first := filepath.Join(scratch, "clip_0.mp4")
	second := filepath.Join(scratch, "clip_1.mp4")
	ctx.Add(cor.CtxIn, []*model.ClipFile{
		{Path: first, Ordinal: 0, FrameCount: 90},
		{Path: second, Ordinal: 1, FrameCount: 60},
	})

	stub := &testutil.StubToolchain{
		Infos: map[string]*media.VideoInfo{
			first:  {FrameRate: 30, Width: 1280, Height: 720},
			second: {FrameRate: 60, Width: 1280, Height: 720},
		},
	}
	cmd := commands.NewAssembler("assemble", stub, t.TempDir())
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var renderErr *model.RenderError
	assert.ErrorAs(t, ctx.FirstError(), &renderErr)
	assert.Contains(t, renderErr.Detail, "do not match")
}

func TestRenderAndAssembleChain(t *testing.T) {
	ctx, scratch := newRunContext(t)
	output := t.TempDir()
	ctx.Add(commands.KeySourceAsset, writeTestVideo(t, scratch))
	ctx.Add(cor.CtxIn, &model.MomentSet{Moments: []model.Moment{
		{StartTime: "0:01", EndTime: "0:04", Description: "homer"},
	}})

	stub := &testutil.StubToolchain{
		Info: &media.VideoInfo{FrameRate: 30, FrameCount: 300, Width: 1280, Height: 720},
	}
	chain := cor.NewBaseChain("render-assemble")
	chain.AddCommand(commands.NewSegmentRenderer("render", stub))
	chain.AddCommand(commands.NewAssembler("assemble", stub, output))
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	merged, ok := ctx.Get(commands.KeyAssembled).(*model.MediaAsset)
	assert.True(t, ok)
	assert.Equal(t, int64(90), merged.FrameCount)
	assert.FileExists(t, merged.LocalPath)
}

func TestAssemblerRejectsEmptyTimeline(t *testing.T) {
	ctx, _ := newRunContext(t)
	ctx.Add(cor.CtxIn, []*model.ClipFile{})

	cmd := commands.NewAssembler("assemble", nil, t.TempDir())
	cmd.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	var emptyErr *model.EmptyTimelineError
	assert.ErrorAs(t, ctx.FirstError(), &emptyErr)
}

func TestArchivePublisherPrefersSignedURL(t *testing.T) {
	ctx, scratch := newRunContext(t)
	merged := filepath.Join(scratch, "test-run_merged.mp4")
	ctx.Add(commands.KeyAssembled, &model.MediaAsset{LocalPath: merged})

	archiver := &testutil.StubArchiver{Signer: true}
	cmd := commands.NewArchivePublisher("archive", archiver)
	assert.True(t, cmd.IsExecutable(ctx))
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, []string{"test-run/test-run_merged.mp4"}, archiver.Stored)
	url, _ := ctx.Get(commands.KeyArchiveURL).(string)
	assert.Equal(t, "https://signed.stub/test-run/test-run_merged.mp4", url)
}

func TestArchivePublisherFallsBackToBucketURI(t *testing.T) {
	ctx, scratch := newRunContext(t)
	ctx.Add(commands.KeyAssembled, &model.MediaAsset{
		LocalPath: filepath.Join(scratch, "test-run_merged.mp4"),
	})

	archiver := &testutil.StubArchiver{}
	commands.NewArchivePublisher("archive", archiver).Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, 0, len(archiver.Signed))
	url, _ := ctx.Get(commands.KeyArchiveURL).(string)
	assert.Equal(t, "gs://stub-bucket/test-run/test-run_merged.mp4", url)
}

func TestMediaCleanupDeletesTrackedHandles(t *testing.T) {
	ctx, _ := newRunContext(t)
	ctx.Add(commands.KeyRemoteHandles, []*model.RemoteUploadHandle{
		{Name: "files/a"},
		{Name: "files/b"},
	})

	store := &testutil.StubFileStore{}
	cmd := commands.NewMediaCleanup("cleanup", store)
	cmd.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, []string{"files/a", "files/b"}, store.Deleted)
	assert.Nil(t, ctx.Get(commands.KeyRemoteHandles))
}
