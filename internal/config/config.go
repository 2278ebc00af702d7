// Package config handles the XDG configuration directory, file paths and the
// optional settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "gtodo"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "settings.yaml"

	// DatabaseFile is the default SQLite database filename.
	DatabaseFile = "tasks.db"

	// BackendEnv overrides the backend chosen in the settings file.
	BackendEnv = "GTODO_BACKEND"
)

// Backend names.
const (
	BackendGoogle = "google"
	BackendSQLite = "sqlite"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings holds values read from settings.yaml, with defaults applied.
	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads settings.yaml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/gtodo or $HOME/.config/gtodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Settings: DefaultSettings()}

	settings, err := LoadSettings(cfg.SettingsPath())
	switch {
	case err == nil:
		cfg.Settings = settings
	case errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return nil, err
	}

	if b := strings.TrimSpace(os.Getenv(BackendEnv)); b != "" {
		cfg.Settings.Backend = b
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DatabasePath returns the SQLite database path. A relative sqlite_path
// setting is resolved against the config directory.
func (c *Config) DatabasePath() string {
	p := c.Settings.SQLitePath
	if p == "" {
		return filepath.Join(c.Dir, DatabaseFile)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
