// Package config loads, normalizes, and validates comicz configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and XDG_DATA_HOME), and reads TOML files. The Config type
// centralizes every knob the CLI and the conversion pipeline need: output and
// log locations, the history ledger, encode quality, and the two levels of
// parallelism (per-archive entries and per-file dispatch).
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
