package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points every config search location at an empty temp tree
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmp, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	for _, key := range []string{"SLOTW_FILE", "SLOTW_ENCODING", "SLOTW_SLOT", "SLOTW_LOG_DIR", "SLOTW_FORMAT", "SLOTW_VERBOSE", "SLOTW_QUIET"} {
		t.Setenv(key, "")
	}
	t.Setenv("SLOTW_PREFIX", "")
	require.NoError(t, os.Unsetenv("SLOTW_PREFIX"))

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(origDir))
	})
	return tmp
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "utf-8", cfg.Watch.Encoding)
	assert.Equal(t, time.Second, cfg.Watch.PollInterval)
	assert.Equal(t, "[CHAT] ", cfg.Watch.ChatPrefix)
	assert.Equal(t, "slot", cfg.Session.SlotName)
	assert.True(t, cfg.Session.SaveLogs)
	assert.NotEmpty(t, cfg.Session.LogDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"ndjson", func(c *Config) { c.Format = "ndjson" }, false},
		{"zero interval", func(c *Config) { c.Watch.PollInterval = 0 }, true},
		{"negative interval", func(c *Config) { c.Watch.PollInterval = -time.Second }, true},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
		{"negative log size", func(c *Config) { c.Session.MaxLogMB = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when no config file exists", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default().Watch, cfg.Watch)
		assert.Empty(t, ConfigFile())
	})

	t.Run("prefers the working directory file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".slotw.yaml"), []byte("watch:\n  chat_prefix: \"local> \"\n"), 0o644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "local> ", cfg.Watch.ChatPrefix)
		assert.Equal(t, filepath.Join(dir, ".slotw.yaml"), ConfigFile())
	})

	t.Run("falls back to the XDG config dir", func(t *testing.T) {
		isolate(t)
		configDir, err := os.UserConfigDir()
		require.NoError(t, err)
		xdg := filepath.Join(configDir, "slotw")
		require.NoError(t, os.MkdirAll(xdg, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "config.yaml"), []byte("session:\n  slot_name: xdg\n"), 0o644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "xdg", cfg.Session.SlotName)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		dir := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".slotw.yaml"), []byte("format: ndjson\nwatch:\n  file_path: /from/file.log\n"), 0o644))
		t.Setenv("SLOTW_FILE", "/from/env.log")
		t.Setenv("SLOTW_ENCODING", "shift_jis")
		t.Setenv("SLOTW_PREFIX", "")
		t.Setenv("SLOTW_SLOT", "envslot")
		t.Setenv("SLOTW_LOG_DIR", "/var/slots")
		t.Setenv("SLOTW_FORMAT", "text")
		t.Setenv("SLOTW_VERBOSE", "1")
		t.Setenv("SLOTW_QUIET", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/from/env.log", cfg.Watch.FilePath)
		assert.Equal(t, "shift_jis", cfg.Watch.Encoding)
		assert.Equal(t, "", cfg.Watch.ChatPrefix)
		assert.Equal(t, "envslot", cfg.Session.SlotName)
		assert.Equal(t, "/var/slots", cfg.Session.LogDir)
		assert.Equal(t, "text", cfg.Format)
		assert.True(t, cfg.Verbose)
		assert.True(t, cfg.Quiet)
	})
}

func TestLoadFromFile(t *testing.T) {
	t.Run("returns error for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromFile("/nonexistent/path/config.yaml")
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o644))

		cfg, err := LoadFromFile(configPath)
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parses all config fields", func(t *testing.T) {
		isolate(t)
		configContent := `
format: ndjson
quiet: false
verbose: true
watch:
  file_path: /games/logs/latest.log
  encoding: shift_jis
  poll_interval: 250ms
  chat_prefix: "[CHAT] "
session:
  slot_name: man10
  log_dir: /tmp/slots
  save_logs: false
  max_log_mb: 5
log:
  path: /tmp/slotw.log
  level: debug
  max_size_mb: 20
  max_backups: 2
  max_age_days: 7
  compress: true
metrics:
  textfile: /var/lib/node_exporter/slotw.prom
`
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, "ndjson", cfg.Format)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, WatchConfig{
			FilePath:     "/games/logs/latest.log",
			Encoding:     "shift_jis",
			PollInterval: 250 * time.Millisecond,
			ChatPrefix:   "[CHAT] ",
		}, cfg.Watch)
		assert.Equal(t, SessionConfig{SlotName: "man10", LogDir: "/tmp/slots", SaveLogs: false, MaxLogMB: 5}, cfg.Session)
		assert.Equal(t, LogConfig{Path: "/tmp/slotw.log", Level: "debug", MaxSizeMB: 20, MaxBackups: 2, MaxAgeDays: 7, Compress: true}, cfg.Log)
		assert.Equal(t, "/var/lib/node_exporter/slotw.prom", cfg.Metrics.Textfile)
	})

	t.Run("keeps defaults for omitted fields", func(t *testing.T) {
		isolate(t)
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("session:\n  slot_name: x\n"), 0o644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, "x", cfg.Session.SlotName)
		assert.Equal(t, time.Second, cfg.Watch.PollInterval)
		assert.Equal(t, "[CHAT] ", cfg.Watch.ChatPrefix)
	})
}

func TestYAMLRoundTripsThroughLoader(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Watch.PollInterval = 1500 * time.Millisecond
	cfg.Watch.FilePath = "/x/latest.log"

	data, err := cfg.YAML()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	watch := raw["watch"].(map[string]interface{})
	assert.Equal(t, "1.5s", watch["poll_interval"])

	path := filepath.Join(t.TempDir(), "generated.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Watch, loaded.Watch)
	assert.Equal(t, cfg.Session, loaded.Session)
}
