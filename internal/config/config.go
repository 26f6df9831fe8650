package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	Quiet   bool   `mapstructure:"quiet" yaml:"quiet" json:"quiet"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch" json:"watch"`
	Session SessionConfig `mapstructure:"session" yaml:"session" json:"session"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// WatchConfig describes the chat log being tailed
type WatchConfig struct {
	FilePath     string        `mapstructure:"file_path" json:"file_path"`
	Encoding     string        `mapstructure:"encoding" json:"encoding"`
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	ChatPrefix   string        `mapstructure:"chat_prefix" json:"chat_prefix"`
}

// MarshalYAML writes the poll interval as a duration string
func (w WatchConfig) MarshalYAML() (interface{}, error) {
	return struct {
		FilePath     string `yaml:"file_path"`
		Encoding     string `yaml:"encoding"`
		PollInterval string `yaml:"poll_interval"`
		ChatPrefix   string `yaml:"chat_prefix"`
	}{w.FilePath, w.Encoding, w.PollInterval.String(), w.ChatPrefix}, nil
}

// SessionConfig controls what a session leaves behind
type SessionConfig struct {
	SlotName string `mapstructure:"slot_name" yaml:"slot_name" json:"slot_name"`
	LogDir   string `mapstructure:"log_dir" yaml:"log_dir" json:"log_dir"`
	SaveLogs bool   `mapstructure:"save_logs" yaml:"save_logs" json:"save_logs"`
	MaxLogMB int    `mapstructure:"max_log_mb" yaml:"max_log_mb" json:"max_log_mb"`
}

// LogConfig configures the diagnostic logger
type LogConfig struct {
	Path       string `mapstructure:"path" yaml:"path" json:"path"`
	Level      string `mapstructure:"level" yaml:"level" json:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress" json:"compress"`
}

// MetricsConfig configures the Prometheus textfile export
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile" json:"textfile"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format: "text",
		Watch: WatchConfig{
			Encoding:     "utf-8",
			PollInterval: time.Second,
			ChatPrefix:   "[CHAT] ",
		},
		Session: SessionConfig{
			SlotName: "slot",
			LogDir:   DefaultLogDir(),
			SaveLogs: true,
			MaxLogMB: 50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultLogDir is where summaries and session logs go when unset
func DefaultLogDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "slotw", "slotLogs")
	}
	return "slotLogs"
}

// Validate rejects settings no session can run with
func (c *Config) Validate() error {
	if c.Watch.PollInterval <= 0 {
		return fmt.Errorf("watch.poll_interval must be positive, got %s", c.Watch.PollInterval)
	}
	switch c.Format {
	case "text", "ndjson":
	default:
		return fmt.Errorf("format must be text or ndjson, got %q", c.Format)
	}
	if c.Session.MaxLogMB < 0 {
		return errors.New("session.max_log_mb must not be negative")
	}
	return nil
}

// YAML renders the config as a config file
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.slotw.yaml or ./.slotw.yml
// 2. ~/.slotw.yaml or ~/.slotw.yml
// 3. $XDG_CONFIG_HOME/slotw/config.yaml (or ~/.config/slotw/config.yaml)
// 4. /etc/slotw/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := readInto(cfg, configFile); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := readInto(cfg, path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func readInto(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".slotw.yaml", ".slotw.yml"}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	var configDirs []string
	if configDir, err := os.UserConfigDir(); err == nil {
		configDirs = append(configDirs, filepath.Join(configDir, "slotw"))
	}
	configDirs = append(configDirs, "/etc/slotw")

	for _, dir := range configDirs {
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLOTW_FILE"); v != "" {
		cfg.Watch.FilePath = v
	}
	if v := os.Getenv("SLOTW_ENCODING"); v != "" {
		cfg.Watch.Encoding = v
	}
	if v, ok := os.LookupEnv("SLOTW_PREFIX"); ok {
		cfg.Watch.ChatPrefix = v
	}
	if v := os.Getenv("SLOTW_SLOT"); v != "" {
		cfg.Session.SlotName = v
	}
	if v := os.Getenv("SLOTW_LOG_DIR"); v != "" {
		cfg.Session.LogDir = v
	}
	if v := os.Getenv("SLOTW_FORMAT"); v != "" {
		cfg.Format = v
	}
	if envBool("SLOTW_VERBOSE") {
		cfg.Verbose = true
	}
	if envBool("SLOTW_QUIET") {
		cfg.Quiet = true
	}
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
