package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LODESTAR_"

// Load reads configuration from an optional YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (LODESTAR_REVIEW_MAX_ACTIONS, LODESTAR_MODEL_NAME, ...)
//  2. YAML config file
//  3. Defaults
//
// The transformer maps LODESTAR_REVIEW_MAX_ACTIONS to review.max_actions:
// the first underscore after the prefix separates section from field.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		trimmed := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(trimmed, "_", 2)
		if len(parts) == 1 {
			return trimmed
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields, including conventional credential
// environment variables when the config carries none.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Model.Name == "" {
		cfg.Model.Name = "claude-sonnet-4-5-20250929"
	}
	if !cfg.Model.APIKey.IsSet() {
		cfg.Model.APIKey = Secret(os.Getenv("ANTHROPIC_API_KEY"))
	}
	if !cfg.GitHub.Token.IsSet() {
		cfg.GitHub.Token = Secret(os.Getenv("GITHUB_TOKEN"))
	}

	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = "."
	}
	if cfg.Design.MaxQuestions == 0 {
		cfg.Design.MaxQuestions = 3
	}
	if cfg.Design.MaxResponseChars == 0 {
		cfg.Design.MaxResponseChars = 1200
	}
	if cfg.Review.MaxActions == 0 {
		cfg.Review.MaxActions = 30
	}
}
