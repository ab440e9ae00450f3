// Package config loads the command-line client's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/PhilipFalla/pokecollect-gui/internal/currency"
	"github.com/PhilipFalla/pokecollect-gui/internal/logger"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

const (
	DefaultAPIBaseURL   = "http://localhost:8000"
	DefaultShareBaseURL = "http://localhost:5173"
	DefaultDir          = "~/.pokecollect"
)

type Config struct {
	APIBaseURL          string            `toml:"api_base_url"`
	ShareBaseURL        string            `toml:"share_base_url"`
	Language            string            `toml:"language"`
	DefaultExchangeRate float64           `toml:"default_exchange_rate"`
	LocalCurrency       currency.Currency `toml:"local_currency"`
	HTTPTimeoutSeconds  int               `toml:"http_timeout"` // 0 means no timeout
	SessionFile         string            `toml:"session_file"`
	Log                 logger.Config     `toml:"log"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		APIBaseURL:          DefaultAPIBaseURL,
		ShareBaseURL:        DefaultShareBaseURL,
		Language:            "EN",
		DefaultExchangeRate: models.DefaultExchangeRate,
		LocalCurrency:       currency.GTQ,
		Log:                 logger.Config{Level: slog.LevelWarn, Format: "text"},
	}
}

// DefaultPath is ~/.pokecollect/config.toml
func DefaultPath() (string, error) {
	dir, err := homedir.Expand(DefaultDir)
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ApplyEnv overrides values from POKECOLLECT_API_URL and POKECOLLECT_LANG
func (c *Config) ApplyEnv() {
	if v := os.Getenv("POKECOLLECT_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("POKECOLLECT_LANG"); v != "" {
		c.Language = v
	}
}

// HTTPTimeout is the per-request client timeout, zero for none
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// SessionPath resolves where the logged-in user is remembered
func (c *Config) SessionPath() (string, error) {
	if c.SessionFile != "" {
		return homedir.Expand(c.SessionFile)
	}
	dir, err := homedir.Expand(DefaultDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.toml"), nil
}
