// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"aawo/internal/dateutil"
)

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Remote   RemoteConfig   `toml:"remote"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
}

// CalendarConfig holds the visible day window and timezone.
type CalendarConfig struct {
	Timezone string `toml:"timezone"`  // e.g., "Asia/Seoul"
	DayStart string `toml:"day_start"` // e.g., "08:00"
	DayEnd   string `toml:"day_end"`   // e.g., "22:00"
}

// RemoteConfig holds the calendar provider settings.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"` // empty targets Microsoft Graph
	// Token is read from AAWO_REMOTE_TOKEN only, never from the file.
	Token string `toml:"-"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "openai" (default) or "ollama"
	Model    string `toml:"model"`    // e.g., "gpt-4o-mini"
	BaseURL  string `toml:"base_url"` // empty targets the provider's default endpoint
	// APIKey is read from AAWO_LLM_API_KEY only, never from the file.
	APIKey string `toml:"-"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Timezone: "Local",
			DayStart: "08:00",
			DayEnd:   "22:00",
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "aawo.db"
	}
	return filepath.Join(home, ".local", "share", "aawo", "aawo.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "aawo", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AAWO_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}
	if v := os.Getenv("AAWO_DAY_START"); v != "" {
		cfg.Calendar.DayStart = v
	}
	if v := os.Getenv("AAWO_DAY_END"); v != "" {
		cfg.Calendar.DayEnd = v
	}

	if v := os.Getenv("AAWO_REMOTE_BASE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	cfg.Remote.Token = os.Getenv("AAWO_REMOTE_TOKEN")

	if v := os.Getenv("AAWO_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("AAWO_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AAWO_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	cfg.LLM.APIKey = os.Getenv("AAWO_LLM_API_KEY")

	if v := os.Getenv("AAWO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Calendar.Timezone, err)
	}

	startMin, err := dateutil.ParseClock(c.Calendar.DayStart)
	if err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	endMin, err := dateutil.ParseClock(c.Calendar.DayEnd)
	if err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if startMin >= endMin {
		return errors.New("day_start must be before day_end")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" || strings.EqualFold(c.Calendar.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Calendar.Timezone)
}

// DayWindow returns the visible day bounds as minutes from midnight.
// Call Validate first; malformed values fall back to the defaults here.
func (c *Config) DayWindow() (startMin, endMin int) {
	startMin, err := dateutil.ParseClock(c.Calendar.DayStart)
	if err != nil {
		startMin = 8 * 60
	}
	endMin, err = dateutil.ParseClock(c.Calendar.DayEnd)
	if err != nil {
		endMin = 22 * 60
	}
	return startMin, endMin
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
