package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Locale selects the language of user-facing headers.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleBR Locale = "pt-BR"
)

// ParseLocale accepts "en" or "pt-BR" (case-insensitive, "pt" and "br" too).
func ParseLocale(s string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "en-us":
		return LocaleEN, nil
	case "pt-br", "pt", "br":
		return LocaleBR, nil
	default:
		return "", fmt.Errorf("unknown locale: %s", s)
	}
}

// UnmarshalYAML normalizes the locale spelling.
func (l *Locale) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseLocale(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Settings is the content of settings.yaml.
type Settings struct {
	// Backend is "google" or "sqlite".
	Backend string `yaml:"backend"`

	// List is the Google Tasks list title backing the collection.
	// Empty means the default list.
	List string `yaml:"list"`

	Locale Locale `yaml:"locale"`

	// Order names the row comparator (see internal/order).
	Order string `yaml:"order"`

	SQLitePath string `yaml:"sqlite_path"`

	// Color enables colored rows in list output.
	Color bool `yaml:"color"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Backend: BackendGoogle,
		Locale:  LocaleEN,
		Order:   "favorites",
	}
}

// LoadSettings reads a settings file over the defaults.
// A missing file is reported with an error satisfying errors.Is(err, os.ErrNotExist).
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.Locale == "" {
		s.Locale = LocaleEN
	}
	return s, nil
}

// Save writes settings to path with mode 0600.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks field values.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendGoogle, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if _, err := ParseLocale(string(s.Locale)); err != nil {
		return err
	}
	return nil
}

// Keys lists the settings.yaml keys in display order.
var Keys = []string{"backend", "list", "locale", "order", "sqlite_path", "color"}

// Get returns the value of key formatted as it appears in settings.yaml.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "backend":
		return s.Backend, nil
	case "list":
		return s.List, nil
	case "locale":
		return string(s.Locale), nil
	case "order":
		return s.Order, nil
	case "sqlite_path":
		return s.SQLitePath, nil
	case "color":
		return strconv.FormatBool(s.Color), nil
	default:
		return "", fmt.Errorf("unknown setting: %s", key)
	}
}

// Set parses value into key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "backend":
		s.Backend = strings.ToLower(value)
	case "list":
		s.List = value
	case "locale":
		l, err := ParseLocale(value)
		if err != nil {
			return err
		}
		s.Locale = l
	case "order":
		s.Order = strings.ToLower(value)
	case "sqlite_path":
		s.SQLitePath = value
	case "color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid color value: %s", value)
		}
		s.Color = b
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return s.Validate()
}
