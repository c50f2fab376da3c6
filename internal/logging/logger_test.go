package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *NewDefaultConfig(), false},
		{"console format", Config{Level: "debug", Format: "console"}, false},
		{"bad level", Config{Level: "chatty", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLoggerRejectsInvalidConfig(t *testing.T) {
	_, err := NewLogger(&Config{Level: "nope", Format: "json"})
	require.Error(t, err)
}

func TestContextFieldsCarrySessionAndTask(t *testing.T) {
	log := NewTestLogger()

	ctx := WithSessionID(context.Background(), "sess-1")
	ctx = WithTaskID(ctx, "task-7")
	log.Info(ctx, "stage complete", zap.String("stage", "plan"))

	entries := log.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sess-1", fields["session.id"])
	assert.Equal(t, "task-7", fields["task.id"])
	assert.Equal(t, "plan", fields["stage"])
}

func TestContextFieldsEmptyWithoutCorrelation(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}
