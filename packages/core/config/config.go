package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the asserts CLI configuration
type Config struct {
	Relation        string        `yaml:"relation,omitempty"` // Relation used when a check names none
	Output          string        `yaml:"output,omitempty"`   // Output format
	OutputFile      string        `yaml:"outputFile,omitempty"`
	NoColor         *bool         `yaml:"noColor,omitempty"`
	Bail            *bool         `yaml:"bail,omitempty"`
	Verbose         *bool         `yaml:"verbose,omitempty"`
	MaximumMatching *bool         `yaml:"maximumMatching,omitempty"`
	QueryTimeout    time.Duration `yaml:"queryTimeout,omitempty"` // e.g. "10s"
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetMaximumMatching returns the maximum matching setting, defaulting to false
func (c *Config) GetMaximumMatching() bool {
	return getBool(c.MaximumMatching, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".asserts.yaml",
	".asserts.yml",
	".assertsrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if config.QueryTimeout < 0 {
		return nil, fmt.Errorf("invalid config file %s: queryTimeout must not be negative", path)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Relation != "" {
		result.Relation = other.Relation
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.QueryTimeout > 0 {
		result.QueryTimeout = other.QueryTimeout
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.MaximumMatching != nil {
		result.MaximumMatching = other.MaximumMatching
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
