// Package config loads the TOML configuration for the blockbuster CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every tunable the pipeline and CLI consume.
type Config struct {
	// APIKey authenticates against the generation service. The
	// GEMINI_API_KEY environment variable overrides the file value.
	APIKey string `toml:"api_key"`

	// DefaultModel serves any stage without an explicit mapping.
	DefaultModel string `toml:"default_model"`

	// StageModels maps stage IDs (scout, decode, research, architect,
	// narrate) to model names.
	StageModels map[string]string `toml:"stage_models"`

	MaxRetries       int `toml:"max_retries"`
	RetryBaseDelayMS int `toml:"retry_base_delay_ms"`

	CharsPerSecond  int `toml:"chars_per_second"`
	MinBlockSeconds int `toml:"min_block_seconds"`

	// HistoryPath locates the run-history database. Empty disables
	// persistence; the pipeline degrades to a no-op store.
	HistoryPath string `toml:"history_path"`

	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DefaultModel:     "gemini-2.0-flash",
		StageModels:      map[string]string{},
		MaxRetries:       3,
		RetryBaseDelayMS: 1000,
		CharsPerSecond:   15,
		MinBlockSeconds:  2,
		HistoryPath:      defaultHistoryPath(),
		LogLevel:         "info",
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blockbuster-history.db"
	}
	return filepath.Join(home, ".blockbuster", "history.db")
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults apply and only the environment can supply the API key.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to defaults
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.DefaultModel == "" {
		return fmt.Errorf("config: default_model must be set")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must be >= 0")
	}
	if c.RetryBaseDelayMS < 0 {
		return fmt.Errorf("config: retry_base_delay_ms must be >= 0")
	}
	if c.CharsPerSecond <= 0 {
		return fmt.Errorf("config: chars_per_second must be > 0")
	}
	if c.MinBlockSeconds <= 0 {
		return fmt.Errorf("config: min_block_seconds must be > 0")
	}
	return nil
}

// ModelFor resolves the model serving a stage.
func (c Config) ModelFor(stageID string) string {
	if m, ok := c.StageModels[stageID]; ok && m != "" {
		return m
	}
	return c.DefaultModel
}

// RetryBaseDelay returns the backoff base as a duration.
func (c Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}
