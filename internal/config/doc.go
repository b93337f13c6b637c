// Package config loads, normalizes, and validates the TOML configuration
// document shared by every factreel command.
//
// Load resolves the config path (explicit flag, then the user config dir, then
// a project-local factreel.toml), expands ~ in all path fields, and applies
// defaults for unset keys so callers always receive a complete document.
package config
