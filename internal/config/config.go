package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// ConfigPathEnv names the optional YAML config file.
const ConfigPathEnv = "ATTENDANCE_CONFIG_PATH"

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Tracker TrackerConfig `yaml:"tracker"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" env:"ATTENDANCE_STORE_DRIVER"`
	Path   string `yaml:"path" env:"ATTENDANCE_STORE_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"ATTENDANCE_LOG_LEVEL"`
	// Path receives logs instead of stderr when set.
	Path string `yaml:"path" env:"ATTENDANCE_LOG_PATH"`
}

type TrackerConfig struct {
	// Timezone is an IANA name, or "Local".
	Timezone      string `yaml:"timezone" env:"ATTENDANCE_TIMEZONE"`
	RenameHistory string `yaml:"rename_history" env:"ATTENDANCE_RENAME_HISTORY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "attendance.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracker: TrackerConfig{
			Timezone:      "Local",
			RenameHistory: "migrate",
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment variables win over the file.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by parsing.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverBadger:
	default:
		return fmt.Errorf("%w: store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	switch c.Tracker.RenameHistory {
	case "", "migrate", "drop":
	default:
		return fmt.Errorf("%w: rename_history %q", ErrInvalidConfig, c.Tracker.RenameHistory)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the tracker timezone.
func (c Config) Location() (*time.Location, error) {
	switch c.Tracker.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Tracker.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Tracker.Timezone, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
