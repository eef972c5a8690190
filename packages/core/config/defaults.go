package config

import "time"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Relation:     "equal",
		Output:       "console",
		QueryTimeout: 30 * time.Second,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Relation == defaults.Relation &&
		c.Output == defaults.Output &&
		c.OutputFile == "" &&
		c.QueryTimeout == defaults.QueryTimeout &&
		c.NoColor == nil &&
		c.Bail == nil &&
		c.Verbose == nil &&
		c.MaximumMatching == nil
}
