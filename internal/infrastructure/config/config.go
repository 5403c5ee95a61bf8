// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration. It is built once
// by the caller and passed into constructors; nothing reads the process
// environment after startup.
type Config struct {
	Snapshots     SnapshotsConfig     `yaml:"snapshots"`
	Matching      MatchingConfig      `yaml:"matching"`
	Sources       SourcesConfig       `yaml:"sources"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// SnapshotsConfig points at the flat exported snapshot files the system
// operates on.
type SnapshotsConfig struct {
	// LedgerPath is the budgeting tool's register export (JSON).
	LedgerPath string `yaml:"ledger_path"`
	// OrderPaths maps a ledger account name to that account's marketplace
	// order-history CSV export.
	OrderPaths map[string]string `yaml:"order_paths"`
	// ReceiptsPath is the parsed storefront receipts export (JSON).
	ReceiptsPath string `yaml:"receipts_path"`
}

// MatchingConfig holds matcher tuning.
type MatchingConfig struct {
	DateWindowDays        int     `yaml:"date_window_days"`
	AmountToleranceCents  int64   `yaml:"amount_tolerance_cents"`
	CompleteThreshold     float64 `yaml:"complete_threshold"`
	SplitPaymentThreshold float64 `yaml:"split_payment_threshold"`
	MaxComboSize          int     `yaml:"max_combo_size"`
	MaxComboCandidates    int     `yaml:"max_combo_candidates"`
}

// SourcesConfig holds payee-name patterns identifying each retail source.
type SourcesConfig struct {
	Marketplace SourceConfig `yaml:"marketplace"`
	Storefront  SourceConfig `yaml:"storefront"`
}

// SourceConfig describes one retail source.
type SourceConfig struct {
	// PayeePatterns are case-insensitive substrings matched against
	// transaction payee names.
	PayeePatterns []string `yaml:"payee_patterns"`
}

// StorageConfig holds the review-store configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECEIPTMATCH_DB})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Snapshots: SnapshotsConfig{
			LedgerPath:   os.Getenv("RECEIPTMATCH_LEDGER"),
			ReceiptsPath: os.Getenv("RECEIPTMATCH_RECEIPTS"),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECEIPTMATCH_DB", "receiptmatch.db"),
		},
		Sources: SourcesConfig{
			Marketplace: SourceConfig{PayeePatterns: []string{"amazon", "amzn"}},
			Storefront:  SourceConfig{PayeePatterns: []string{"steam"}},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills zero-valued matching knobs with the standard tuning.
func (c *Config) applyDefaults() {
	if c.Matching.DateWindowDays == 0 {
		c.Matching.DateWindowDays = 2
	}
	if c.Matching.AmountToleranceCents == 0 {
		c.Matching.AmountToleranceCents = 100
	}
	if c.Matching.CompleteThreshold == 0 {
		c.Matching.CompleteThreshold = 0.75
	}
	if c.Matching.SplitPaymentThreshold == 0 {
		c.Matching.SplitPaymentThreshold = 0.65
	}
	if c.Matching.MaxComboSize == 0 {
		c.Matching.MaxComboSize = 3
	}
	if c.Matching.MaxComboCandidates == 0 {
		c.Matching.MaxComboCandidates = 16
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "receiptmatch.db"
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
