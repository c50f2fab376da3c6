package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/lodestar-dev/lodestar/internal/logging"
	"github.com/lodestar-dev/lodestar/internal/safety"
)

const maxOutputBytes = 64 * 1024

// ConfirmFunc asks a human whether a command outside the pre-approved set
// may run. A nil ConfirmFunc denies every unapproved command.
type ConfirmFunc func(ctx context.Context, command []string) bool

// ShellExecutor runs shell invocations in a workspace directory. Commands
// the safety classifier does not pre-approve go through the confirm hook
// before running.
type ShellExecutor struct {
	workdir string
	confirm ConfirmFunc
	log     *logging.Logger
}

// NewShellExecutor creates a shell executor rooted at workdir.
func NewShellExecutor(workdir string, confirm ConfirmFunc, log *logging.Logger) *ShellExecutor {
	return &ShellExecutor{workdir: workdir, confirm: confirm, log: log}
}

// Execute implements Executor for the shell tool.
func (e *ShellExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	command, err := commandTokens(inv.Input)
	if err != nil {
		return Result{Output: err.Error(), Status: StatusError}, nil
	}

	if !safety.IsPreApproved(command) {
		if e.confirm == nil || !e.confirm(ctx, command) {
			e.log.Info(ctx, "command denied without confirmation",
				zap.Strings("command", command))
			return Result{
				Output: fmt.Sprintf("command %q requires human confirmation and was not approved", strings.Join(command, " ")),
				Status: StatusError,
			}, nil
		}
		e.log.Info(ctx, "unapproved command confirmed by human",
			zap.Strings("command", command))
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = e.workdir
	output, runErr := cmd.CombinedOutput()
	if len(output) > maxOutputBytes {
		output = output[:maxOutputBytes]
	}

	if runErr != nil {
		return Result{
			Output: fmt.Sprintf("%s\n%s", strings.TrimSpace(string(output)), runErr),
			Status: StatusError,
		}, nil
	}
	return Result{Output: string(output), Status: StatusSuccess}, nil
}

// commandTokens extracts the command token list from tool input. The model
// may send either a token array or a single string.
func commandTokens(input map[string]any) ([]string, error) {
	raw, ok := input["command"]
	if !ok {
		return nil, fmt.Errorf("shell invocation missing command")
	}

	switch v := raw.(type) {
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("shell invocation has empty command")
		}
		return v, nil
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("shell command token is not a string: %v", item)
			}
			tokens = append(tokens, s)
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("shell invocation has empty command")
		}
		return tokens, nil
	case string:
		tokens := strings.Fields(v)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("shell invocation has empty command")
		}
		return tokens, nil
	default:
		return nil, fmt.Errorf("shell command has unsupported type %T", raw)
	}
}
