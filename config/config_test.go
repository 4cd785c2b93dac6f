package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockbuster.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.DefaultModel)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryBaseDelay())
	assert.Equal(t, 15, cfg.CharsPerSecond)
	assert.Equal(t, 2, cfg.MinBlockSeconds)
	assert.NotEmpty(t, cfg.HistoryPath)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultModel, cfg.DefaultModel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	path := writeConfig(t, `
api_key = "file-key"
default_model = "gemini-2.5-pro"
max_retries = 5
retry_base_delay_ms = 250
chars_per_second = 12
min_block_seconds = 3
history_path = "/tmp/bb-test/history.db"
log_level = "debug"

[stage_models]
narrate = "gemini-2.5-pro"
scout = "gemini-2.0-flash"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.DefaultModel)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBaseDelay())
	assert.Equal(t, 12, cfg.CharsPerSecond)
	assert.Equal(t, 3, cfg.MinBlockSeconds)
	assert.Equal(t, "/tmp/bb-test/history.db", cfg.HistoryPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvironmentOverridesFileKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	path := writeConfig(t, `api_key = "file-key"`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, `max_retries = "three"`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty default_model":    func(c *Config) { c.DefaultModel = "" },
		"negative max_retries":   func(c *Config) { c.MaxRetries = -1 },
		"negative retry delay":   func(c *Config) { c.RetryBaseDelayMS = -5 },
		"zero chars_per_second":  func(c *Config) { c.CharsPerSecond = 0 },
		"zero min_block_seconds": func(c *Config) { c.MinBlockSeconds = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestModelFor(t *testing.T) {
	cfg := Default()
	cfg.DefaultModel = "base"
	cfg.StageModels = map[string]string{"narrate": "pro", "scout": ""}

	assert.Equal(t, "pro", cfg.ModelFor("narrate"))
	assert.Equal(t, "base", cfg.ModelFor("scout"), "empty mapping falls back")
	assert.Equal(t, "base", cfg.ModelFor("decode"))
}
