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

package cor

import (
	"log/slog"
)

// BaseChain executes its commands in order against a shared context. After
// each command the chain moves the command's output value to the CtxIn key so
// the next command finds its input where it expects it. A chain is itself a
// Command, so workflows compose.
type BaseChain struct {
	BaseCommand
	commands          []Command
	continueOnFailure bool
}

// NewBaseChain returns an empty stop-on-failure chain.
func NewBaseChain(name string) *BaseChain {
	return &BaseChain{
		BaseCommand: NewBaseCommand(name),
		commands:    make([]Command, 0),
	}
}

func (c *BaseChain) ContinueOnFailure(continueOnFailure bool) Chain {
	c.continueOnFailure = continueOnFailure
	return c
}

func (c *BaseChain) AddCommand(command Command) Chain {
	c.commands = append(c.commands, command)
	return c
}

// IsExecutable for a chain only requires a clean error state; the first
// command decides whether its own input is present.
func (c *BaseChain) IsExecutable(context Context) bool {
	return c.continueOnFailure || !context.HasErrors()
}

// Execute runs each command inside its own span, counting successes and
// failures, and pipes CtxOut back to CtxIn between commands. A command whose
// precondition fails is skipped, not fatal; the chain stops early only when a
// command records an error and the chain is not set to continue on failure.
func (c *BaseChain) Execute(context Context) {
	for _, command := range c.commands {
		if !command.IsExecutable(context) {
			slog.Warn("skipping command", "chain", c.Name, "command", command.GetName())
			continue
		}

		ctx, span := command.GetTracer().Start(context.GetContext(), command.GetName())
		context.SetContext(ctx)
		command.Execute(context)
		span.End()

		if context.HasErrors() {
			command.GetErrorCounter().Add(ctx, 1)
			if !c.continueOnFailure {
				slog.Error("command failed",
					"chain", c.Name,
					"command", command.GetName(),
					"error", context.FirstError())
				return
			}
			continue
		}
		command.GetSuccessCounter().Add(ctx, 1)

		// Pipe this command's output into the next command's input.
		if out := context.Get(command.GetOutputParam()); out != nil {
			context.Remove(command.GetOutputParam())
			context.Add(CtxIn, out)
		}
	}
}
