// Package config provides configuration loading and management for dockfuzz.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the main dockfuzz configuration
type Config struct {
	Version   string          `yaml:"version"`
	Fuzz      FuzzConfig      `yaml:"fuzz"`
	History   HistoryConfig   `yaml:"history"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// FuzzConfig controls test generation and execution
type FuzzConfig struct {
	NumTests          int    `yaml:"num_tests"`
	OperationsPerTest int    `yaml:"operations_per_test"`
	DelayMS           int    `yaml:"delay_ms"` // wait between operations
	DumpOnFailure     bool   `yaml:"dump_on_failure"`
	DumpPath          string `yaml:"dump_path"`
}

// HistoryConfig controls the run-history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TelemetryConfig contains observability settings
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Fuzz: FuzzConfig{
			NumTests:          1,
			OperationsPerTest: 200,
			DumpOnFailure:     true,
			DumpPath:          "fuzzer_dump.json",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// DefaultConfigDir returns the default configuration directory path
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".dockfuzz"), nil
}

// Load reads the configuration from the specified path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration from the default path. A missing file is
// not an error: the harness runs fine on defaults.
func LoadDefault() (*Config, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
