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

package cor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diamond-district/go-highlight-reel/internal/core/cor"
)

// appendCommand appends its suffix to the piped string, or records an error.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	fail   error
}

func newAppendCommand(name, suffix string, fail error) *appendCommand {
	return &appendCommand{BaseCommand: cor.NewBaseCommand(name), suffix: suffix, fail: fail}
}

func (c *appendCommand) Execute(context cor.Context) {
	if c.fail != nil {
		context.AddError(c.GetName(), c.fail)
		return
	}
	in := context.Get(c.GetInputParam()).(string)
	context.Add(c.GetOutputParam(), in+c.suffix)
}

func TestChainPipesOutputToInput(t *testing.T) {
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", "-a", nil))
	chain.AddCommand(newAppendCommand("second", "-b", nil))
	chain.AddCommand(newAppendCommand("third", "-c", nil))

	ctx := cor.NewBaseContext()
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, "start-a-b-c", ctx.Get(cor.CtxIn))
}

func TestChainHaltsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newAppendCommand("first", "-a", nil))
	chain.AddCommand(newAppendCommand("second", "", boom))
	chain.AddCommand(newAppendCommand("third", "-c", nil))

	ctx := cor.NewBaseContext()
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, boom, ctx.FirstError())
	// The third command must not have run.
	assert.Equal(t, "start-a", ctx.Get(cor.CtxIn))
}

func TestChainContinueOnFailure(t *testing.T) {
	chain := cor.NewBaseChain("test-chain").ContinueOnFailure(true)
	chain.AddCommand(newAppendCommand("first", "-a", nil))
	chain.AddCommand(newAppendCommand("second", "", errors.New("boom")))
	chain.AddCommand(newAppendCommand("third", "-c", nil))

	ctx := cor.NewBaseContext()
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, "start-a-c", ctx.Get(cor.CtxIn))
}

// gatedCommand models an optional stage that declines to run when its
// collaborator is unconfigured.
type gatedCommand struct {
	cor.BaseCommand
	configured bool
	ran        bool
}

func (c *gatedCommand) IsExecutable(_ cor.Context) bool { return c.configured }

func (c *gatedCommand) Execute(_ cor.Context) { c.ran = true }

func TestChainSkipsUnconfiguredCommandAndContinues(t *testing.T) {
	unconfigured := &gatedCommand{BaseCommand: cor.NewBaseCommand("archive"), configured: false}
	configured := &gatedCommand{BaseCommand: cor.NewBaseCommand("persist"), configured: true}

	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(unconfigured)
	chain.AddCommand(configured)

	ctx := cor.NewBaseContext()
	ctx.Add(cor.CtxIn, "start")
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.False(t, unconfigured.ran)
	// A declined precondition is a skip, never a halt.
	assert.True(t, configured.ran)
}

func TestContextCloseRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scratch.bin")
	assert.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	ctx := cor.NewBaseContext()
	ctx.AddTempFile(file)
	ctx.Close()

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestContextFirstErrorKeepsArrivalOrder(t *testing.T) {
	ctx := cor.NewBaseContext()
	first := errors.New("first")
	ctx.AddError("a", first)
	ctx.AddError("b", errors.New("second"))
	assert.Equal(t, first, ctx.FirstError())
}
