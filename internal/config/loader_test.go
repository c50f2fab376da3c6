package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30, cfg.Review.MaxActions)
	assert.Equal(t, 3, cfg.Design.MaxQuestions)
	assert.Equal(t, 1200, cfg.Design.MaxResponseChars)
	assert.Equal(t, ".", cfg.Workspace.Root)
	assert.NotEmpty(t, cfg.Model.Name)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
  format: console
review:
  max_actions: 5
model:
  name: claude-haiku-4-5
workspace:
  root: /srv/workspaces/acme
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.Review.MaxActions)
	assert.Equal(t, "claude-haiku-4-5", cfg.Model.Name)
	assert.Equal(t, "/srv/workspaces/acme", cfg.Workspace.Root)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("review:\n  max_actions: 5\n"), 0o600))

	t.Setenv("LODESTAR_REVIEW_MAX_ACTIONS", "12")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Review.MaxActions)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative review budget", "review:\n  max_actions: -1\n"},
		{"bad log level", "logging:\n  level: shouty\n"},
		{"github owner without repo", "github:\n  owner: acme\n  issue: 3\n"},
		{"github owner without issue", "github:\n  owner: acme\n  repo: api\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", s))
	assert.Equal(t, "Secret([REDACTED])", fmt.Sprintf("%#v", s))
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())
	assert.False(t, Secret("").IsSet())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `"[REDACTED]"`, string(out))
}
