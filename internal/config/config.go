// Package config loads the bot configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// EnvToken and EnvDatabaseURL override the file values when set.
	EnvToken       = "TOKEN"
	EnvDatabaseURL = "DATABASE_URL"
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Dialog   DialogConfig   `yaml:"dialog"`
	Listing  ListingConfig  `yaml:"listing"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type StorageConfig struct {
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate"`
}

type DialogConfig struct {
	MaxSessions int           `yaml:"max_sessions"`
	SessionTTL  time.Duration `yaml:"session_ttl"` // 0 keeps sessions until evicted
}

type ListingConfig struct {
	RecentWindow int `yaml:"recent_window"`
	SearchWindow int `yaml:"search_window"`
}

type MetricsConfig struct {
	Addr            string        `yaml:"addr"` // empty disables the HTTP endpoint
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Storage: StorageConfig{Migrate: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path, applies env overrides and
// validates the result. An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv(os.LookupEnv)
		return cfg, cfg.validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse unmarshals YAML bytes into a validated Config, without env overrides.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Config{Storage: StorageConfig{Migrate: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.DSN == "" && c.Storage.Driver == DriverSQLite {
		c.Storage.DSN = "trips.db"
	}
	if c.Dialog.MaxSessions == 0 {
		c.Dialog.MaxSessions = 10000
	}
	if c.Listing.RecentWindow == 0 {
		c.Listing.RecentWindow = 8
	}
	if c.Listing.SearchWindow == 0 {
		c.Listing.SearchWindow = 50
	}
	if c.Metrics.RefreshInterval == 0 {
		c.Metrics.RefreshInterval = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvToken); ok && strings.TrimSpace(v) != "" {
		c.Telegram.Token = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDatabaseURL); ok && strings.TrimSpace(v) != "" {
		c.Storage.DSN = strings.TrimSpace(v)
	}
}

func (c *Config) validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be %q or %q", c.Storage.Driver, DriverPostgres, DriverSQLite))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, errors.New("storage.dsn is required"))
	}
	if c.Dialog.MaxSessions < 0 {
		errs = append(errs, errors.New("dialog.max_sessions must not be negative"))
	}
	if c.Dialog.SessionTTL < 0 {
		errs = append(errs, errors.New("dialog.session_ttl must not be negative"))
	}
	if c.Listing.RecentWindow < 0 || c.Listing.SearchWindow < 0 {
		errs = append(errs, errors.New("listing windows must not be negative"))
	}
	if c.Listing.SearchWindow < c.Listing.RecentWindow {
		errs = append(errs, errors.New("listing.search_window must be at least listing.recent_window"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RequireToken reports a missing Telegram token. Only the serve command
// needs one.
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: telegram token is required (set %s or telegram.token)", EnvToken)
	}
	return nil
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds the root logger described by l.
func (l LogConfig) NewLogger() *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
