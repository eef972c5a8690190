// Package config handles configuration loading and management for the
// asserts CLI.
//
// It provides functionality for:
//   - Loading configuration from .asserts.yaml, .asserts.yml or .assertsrc files
//   - Default configuration values
//   - Merging configuration layers, with explicitly set values taking precedence
package config
