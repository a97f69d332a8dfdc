// Package config provides configuration loading and validation for the
// resume builder service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	DataDir     string `json:"data_dir,omitempty"`     // Directory for the file-backed record store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; overrides DataDir when set

	// Identity
	OnInvalidCredential string `json:"on_invalid_credential,omitempty"` // "anonymize" (default) or "reject"

	// Retention
	RetentionDays int  `json:"retention_days,omitempty"` // Prune records idle longer than this; 0 disables
	PruneOnWrite  bool `json:"prune_on_write,omitempty"` // Remove superseded records after each upsert

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("config error: 'retention_days' must be non-negative")
	}
	switch c.OnInvalidCredential {
	case "", "anonymize", "reject":
	default:
		return fmt.Errorf("config error: 'on_invalid_credential' must be \"anonymize\" or \"reject\", got %q", c.OnInvalidCredential)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.OnInvalidCredential == "" {
		result.OnInvalidCredential = defaults.OnInvalidCredential
	}
	if result.RetentionDays == 0 {
		result.RetentionDays = defaults.RetentionDays
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
