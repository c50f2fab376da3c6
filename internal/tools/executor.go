// Package tools defines the tool-execution collaborator the reviewer loop
// dispatches against, plus local implementations: a shell executor gated by
// the command safety classifier and a read-only workspace search.
package tools

import (
	"context"

	"github.com/lodestar-dev/lodestar/internal/llm"
)

// Status reports how an invocation finished.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Invocation is one proposed tool call to execute.
type Invocation struct {
	ID    string
	Name  string
	Input map[string]any
}

// Result is the outcome of an invocation.
type Result struct {
	Output string
	Status Status
}

// Executor runs tool invocations against a workspace. An error return means
// the executor itself failed; callers fold either outcome into transcript
// content rather than propagating it further.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (Result, error)
}

// Tool names understood by the local executor.
const (
	ToolShell  = "shell"
	ToolSearch = "search"
)

// Definitions returns the tool descriptors advertised to the reasoning
// collaborator.
func Definitions() []llm.Tool {
	return []llm.Tool{
		{
			Name:        ToolShell,
			Description: "Run a shell command in the workspace. Commands not on the read-only allow-list require human confirmation before running.",
			InputSchema: map[string]any{
				"command": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Command and arguments as separate tokens.",
				},
			},
		},
		{
			Name:        ToolSearch,
			Description: "Search workspace files for a regular expression. Read-only.",
			InputSchema: map[string]any{
				"pattern": map[string]any{
					"type":        "string",
					"description": "Regular expression to search for.",
				},
				"path": map[string]any{
					"type":        "string",
					"description": "Directory to search, relative to the workspace root.",
				},
			},
		},
	}
}
