package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestar-dev/lodestar/internal/logging"
)

func TestShellExecutorRunsPreApprovedCommand(t *testing.T) {
	e := NewShellExecutor(t.TempDir(), nil, logging.NewTestLogger().Logger)

	res, err := e.Execute(context.Background(), Invocation{
		ID:    "inv-1",
		Name:  ToolShell,
		Input: map[string]any{"command": []any{"echo", "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Contains(t, res.Output, "hello")
}

func TestShellExecutorDeniesWithoutConfirmation(t *testing.T) {
	log := logging.NewTestLogger()
	e := NewShellExecutor(t.TempDir(), nil, log.Logger)

	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"command": []any{"rm", "-rf", "/tmp/whatever"}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Output, "requires human confirmation")
	assert.Equal(t, 1, log.FilterMessage("command denied without confirmation").Len())
}

func TestShellExecutorRunsConfirmedCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o600))

	confirmed := false
	confirm := func(_ context.Context, command []string) bool {
		confirmed = true
		return true
	}
	e := NewShellExecutor(dir, confirm, logging.NewTestLogger().Logger)

	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"command": []any{"rm", "scratch.txt"}},
	})
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoFileExists(t, filepath.Join(dir, "scratch.txt"))
}

func TestShellExecutorCapturesNonZeroExit(t *testing.T) {
	e := NewShellExecutor(t.TempDir(), nil, logging.NewTestLogger().Logger)

	// ls on a missing path exits non-zero but is pre-approved.
	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"command": []any{"ls", "definitely-missing-dir"}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.NotEmpty(t, res.Output)
}

func TestShellExecutorBadInput(t *testing.T) {
	e := NewShellExecutor(t.TempDir(), nil, logging.NewTestLogger().Logger)

	tests := []struct {
		name  string
		input map[string]any
	}{
		{"missing command", map[string]any{}},
		{"empty command", map[string]any{"command": []any{}}},
		{"non-string token", map[string]any{"command": []any{"echo", 42}}},
		{"unsupported type", map[string]any{"command": 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Execute(context.Background(), Invocation{Input: tt.input})
			require.NoError(t, err)
			assert.Equal(t, StatusError, res.Status)
		})
	}
}

func TestSearchExecutor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\nfunc Handler() {}\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "b.go"), []byte("func Handler() {}\n"), 0o600))

	e := NewSearchExecutor(dir)
	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"pattern": "Handler"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Contains(t, res.Output, "a.go:2")
	assert.NotContains(t, res.Output, ".git")
}

func TestSearchExecutorNoMatches(t *testing.T) {
	e := NewSearchExecutor(t.TempDir())
	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"pattern": "nothing-here"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "no matches", res.Output)
}

func TestSearchExecutorRejectsEscapingPath(t *testing.T) {
	e := NewSearchExecutor(t.TempDir())
	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"pattern": "x", "path": "../.."},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Output, "escapes the workspace")
}

func TestSearchExecutorBadPattern(t *testing.T) {
	e := NewSearchExecutor(t.TempDir())

	res, err := e.Execute(context.Background(), Invocation{
		Input: map[string]any{"pattern": "("},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
}

func TestMuxRoutesByName(t *testing.T) {
	m := NewMux()
	m.Register(ToolSearch, NewSearchExecutor(t.TempDir()))

	res, err := m.Execute(context.Background(), Invocation{Name: ToolSearch, Input: map[string]any{"pattern": "x"}})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)

	res, err = m.Execute(context.Background(), Invocation{Name: "launch-missiles"})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Output, "unknown tool")
}
