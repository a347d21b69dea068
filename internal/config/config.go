// Package config loads the oceannotes settings file.
//
// Settings are resolved in layers: built-in defaults, then the config file
// (YAML or TOML, chosen by extension), then environment variables. Command
// line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/autosave"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// Environment variables that override file settings.
const (
	EnvDataDir  = "OCEAN_NOTES_DATA_DIR"
	EnvAdapter  = "OCEAN_NOTES_ADAPTER"
	EnvAppURL   = "OCEAN_NOTES_APP_URL"
	EnvReadOnly = "OCEAN_NOTES_READ_ONLY"
)

// Config is the full settings tree.
type Config struct {
	DataDir    string         `yaml:"data_dir" toml:"data_dir"`
	Adapter    string         `yaml:"adapter" toml:"adapter"`
	StorageKey string         `yaml:"storage_key" toml:"storage_key"`
	Format     string         `yaml:"format" toml:"format"`
	ReadOnly   bool           `yaml:"read_only" toml:"read_only"`
	AppURL     string         `yaml:"app_url" toml:"app_url"`
	Autosave   AutosaveConfig `yaml:"autosave" toml:"autosave"`
	Log        LogConfig      `yaml:"log" toml:"log"`
}

// AutosaveConfig tunes the editor's debounced writes.
type AutosaveConfig struct {
	// Delay is a Go duration string, e.g. "400ms".
	Delay        string `yaml:"delay" toml:"delay"`
	FlushOnClose bool   `yaml:"flush_on_close" toml:"flush_on_close"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	// File receives TUI logs; empty means <data_dir>/oceannotes.log.
	File string `yaml:"file" toml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Adapter:    "fs",
		StorageKey: core.DefaultStorageKey,
		Format:     "json",
		Autosave: AutosaveConfig{
			Delay: autosave.DefaultDelay.String(),
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/oceannotes/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "oceannotes", "config.yaml"), nil
}

// Load reads the settings file at path over the defaults and then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := readFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func readFile(path string, out *Config) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, out)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvAdapter); v != "" {
		c.Adapter = v
	}
	if v := os.Getenv(EnvAppURL); v != "" {
		c.AppURL = v
	}
	if v := os.Getenv(EnvReadOnly); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ReadOnly = b
		}
	}
}

// Validate checks values that cannot be checked by decoding alone.
func (c Config) Validate() error {
	if _, err := c.AutosaveDelay(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// AutosaveDelay parses Autosave.Delay. Empty means autosave.DefaultDelay.
func (c Config) AutosaveDelay() (time.Duration, error) {
	if strings.TrimSpace(c.Autosave.Delay) == "" {
		return autosave.DefaultDelay, nil
	}
	d, err := time.ParseDuration(c.Autosave.Delay)
	if err != nil {
		return 0, fmt.Errorf("autosave.delay: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("autosave.delay must be positive, got %s", d)
	}
	return d, nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(name) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Save writes the settings to path in the format implied by its extension.
func Save(path string, cfg Config) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
