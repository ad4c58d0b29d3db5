// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level      string `toml:"level" validate:"oneof=debug info warn error"`
	Format     string `toml:"format" validate:"oneof=console json"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `toml:"max_backups" validate:"min=0"`
}

// Config holds all application configuration.
type Config struct {
	// Tenant prefixes the qualified names the facets match against.
	Tenant string `toml:"tenant" validate:"required,excludesall=/"`
	// CustomType forces a vendor for every parse when set.
	CustomType    string    `toml:"custom_type" validate:"omitempty,oneof=mode sigma quicksight"`
	AllowEmptyIDs bool      `toml:"allow_empty_ids"`
	Output        string    `toml:"output" validate:"oneof=auto json yaml pretty"`
	History       bool      `toml:"history"`
	HistoryPath   string    `toml:"history_path"`
	Log           LogConfig `toml:"log"`
	Debug         bool      `toml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tenant:  "default",
		Output:  "auto",
		History: true,
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sitelink"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sitelink"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the default config file and merges it with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path, false)
}

// LoadFile reads the config at path. When required is false a missing
// file yields the defaults.
func LoadFile(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	c.CustomType = strings.ToLower(c.CustomType)
	c.Output = strings.ToLower(c.Output)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: value %v fails %q", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return err
	}
	return nil
}

// ResolveHistoryPath returns the configured history database path, or the
// XDG data location when none is set.
func (c *Config) ResolveHistoryPath() (string, error) {
	if c.HistoryPath != "" {
		return expandHome(c.HistoryPath)
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "sitelink", "history.db"), nil
}

// expandHome resolves a leading ~/ in path.
func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
