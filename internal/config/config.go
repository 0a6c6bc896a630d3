// Package config loads tool configuration from an optional file and
// NHLXG-prefixed environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete tool configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds NHL api-web client configuration.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScrapeConfig holds defaults for game discovery and extraction.
type ScrapeConfig struct {
	Seasons []int    `mapstructure:"seasons"`
	Teams   []string `mapstructure:"teams"` // empty = all teams
	Workers int      `mapstructure:"workers"`
}

// StorageConfig holds the SQLite store location.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel maps the configured level name to a slog level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from the file at path (optional, "" skips the
// file) and environment variables, applying defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NHLXG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api-web.nhle.com/v1")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("scrape.seasons", []int{20232024, 20242025, 20252026})
	v.SetDefault("scrape.workers", 1)

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if len(c.Scrape.Seasons) == 0 {
		return fmt.Errorf("scrape.seasons must contain at least one season")
	}
	for _, season := range c.Scrape.Seasons {
		if season < 10000000 || season > 99999999 {
			return fmt.Errorf("scrape.seasons: %d is not a season identifier like 20242025", season)
		}
	}
	if c.Scrape.Workers < 1 {
		return fmt.Errorf("scrape.workers must be at least 1")
	}
	return nil
}
