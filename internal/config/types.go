// Package config provides configuration loading for lodestar.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/lodestar-dev/lodestar/internal/logging"
)

// Secret holds a sensitive string that must never appear in logs or
// serialized output. Formatting a Secret always yields a redacted value.
type Secret string

// String implements fmt.Stringer. Always returns redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// IsSet returns true if the secret has a non-empty value.
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON implements json.Marshaler. Always returns redacted value.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s == "" {
		return json.Marshal("")
	}
	return json.Marshal("[REDACTED]")
}

// Config is the root configuration.
type Config struct {
	Logging   logging.Config  `koanf:"logging"`
	Model     ModelConfig     `koanf:"model"`
	GitHub    GitHubConfig    `koanf:"github"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Design    DesignConfig    `koanf:"design"`
	Review    ReviewConfig    `koanf:"review"`
	Scratch   ScratchConfig   `koanf:"scratch"`
}

// ModelConfig selects the reasoning model.
type ModelConfig struct {
	Name   string `koanf:"name"`
	APIKey Secret `koanf:"api_key"`
}

// GitHubConfig binds the session to the issue persisting its task plan.
// Leave Owner empty to keep the plan in memory only.
type GitHubConfig struct {
	Token Secret `koanf:"token"`
	Owner string `koanf:"owner"`
	Repo  string `koanf:"repo"`
	Issue int    `koanf:"issue"`
}

// WorkspaceConfig locates the working tree tools run against.
type WorkspaceConfig struct {
	Root string `koanf:"root"`
}

// DesignConfig bounds the design conversation.
type DesignConfig struct {
	// MaxQuestions caps clarifying questions per design turn.
	MaxQuestions int `koanf:"max_questions"`

	// MaxResponseChars caps the length of a design-stage reply.
	MaxResponseChars int `koanf:"max_response_chars"`
}

// ReviewConfig bounds the reviewer action loop.
type ReviewConfig struct {
	// MaxActions caps review rounds; the loop stops proposing once the
	// transcript reaches 2*MaxActions+1 entries.
	MaxActions int `koanf:"max_actions"`
}

// ScratchConfig locates the persistent scratch store. Empty path selects
// the in-memory store.
type ScratchConfig struct {
	Path string `koanf:"path"`
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must be set")
	}
	if c.Review.MaxActions <= 0 {
		return fmt.Errorf("review.max_actions must be positive, got %d", c.Review.MaxActions)
	}
	if c.Design.MaxQuestions <= 0 {
		return fmt.Errorf("design.max_questions must be positive, got %d", c.Design.MaxQuestions)
	}
	if c.GitHub.Owner != "" {
		if c.GitHub.Repo == "" {
			return fmt.Errorf("github.repo must be set when github.owner is set")
		}
		if c.GitHub.Issue <= 0 {
			return fmt.Errorf("github.issue must be positive when github.owner is set")
		}
	}
	return nil
}
