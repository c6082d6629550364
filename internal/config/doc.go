// Package config loads, normalizes, and validates subrename configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the SUBRENAME_STATE_DIR environment fallback.
// Command-line flags are applied on top of the loaded Config by the CLI, so
// the file only needs to carry what differs from the defaults.
package config
