// Package config loads, normalizes, and validates the converter
// configuration.
//
// Configuration lives in a TOML file (default ~/.config/rigroot/config.toml,
// or ./rigroot.toml for project-local setups). Load applies defaults first,
// overlays the file when present, expands ~ in path fields, and validates the
// result, so callers always receive a usable Config.
package config
