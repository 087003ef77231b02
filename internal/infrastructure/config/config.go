// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	matcherCfg, err := cfg.Matching.ToMatcherConfig()
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/receipt-inbox/internal/domain/matcher"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Matching      MatchingConfig      `yaml:"matching"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int             `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds per-tenant request limits; zero disables limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// MatchingConfig holds receipt matching thresholds
type MatchingConfig struct {
	HighDateDays    int    `yaml:"high_date_days"`
	MediumDateDays  int    `yaml:"medium_date_days"`
	WindowDays      int    `yaml:"window_days"`
	AmountTolerance string `yaml:"amount_tolerance"` // Decimal fraction, e.g. "0.10"
	MaxParallel     int    `yaml:"max_parallel"`     // Receipts evaluated concurrently per request
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" (Maven-style console) or "json"
}

// Default returns the built-in configuration
func Default() *Config {
	m := matcher.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Storage: StorageConfig{
			DatabasePath: "receipts.db",
		},
		Matching: MatchingConfig{
			HighDateDays:    m.HighDateDays,
			MediumDateDays:  m.MediumDateDays,
			WindowDays:      m.WindowDays,
			AmountTolerance: m.AmountTolerance.String(),
			MaxParallel:     8,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECEIPTS_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Default()

	cfg.Storage.DatabasePath = getEnv("RECEIPTS_DB_PATH", cfg.Storage.DatabasePath)
	cfg.Server.Port = getEnvInt("RECEIPTS_PORT", cfg.Server.Port)
	if origins := os.Getenv("RECEIPTS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.Matching.WindowDays = getEnvInt("MATCH_WINDOW_DAYS", cfg.Matching.WindowDays)
	cfg.Matching.MaxParallel = getEnvInt("MATCH_MAX_PARALLEL", cfg.Matching.MaxParallel)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() (*Config, error) {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath loads the file at path, falling back to environment
// variables only when the file does not exist. A file that exists but cannot
// be read or parsed is an error.
func LoadOrEnv_WithPath(path string) (*Config, error) {
	cfg, err := Load(path)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		return LoadFromEnv(), nil
	default:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
}

// ToMatcherConfig converts and validates the matching thresholds.
func (m MatchingConfig) ToMatcherConfig() (matcher.Config, error) {
	tolerance, err := decimal.NewFromString(m.AmountTolerance)
	if err != nil {
		return matcher.Config{}, fmt.Errorf("invalid matching.amount_tolerance %q: %w", m.AmountTolerance, err)
	}
	if tolerance.IsNegative() {
		return matcher.Config{}, fmt.Errorf("matching.amount_tolerance must not be negative, got %s", tolerance)
	}
	if m.HighDateDays < 0 || m.MediumDateDays < m.HighDateDays {
		return matcher.Config{}, fmt.Errorf("matching date bands must satisfy 0 <= high (%d) <= medium (%d)", m.HighDateDays, m.MediumDateDays)
	}

	return matcher.Config{
		HighDateDays:    m.HighDateDays,
		MediumDateDays:  m.MediumDateDays,
		WindowDays:      m.WindowDays,
		AmountTolerance: tolerance,
	}, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
