// Package config loads, normalizes, and validates MovieFlix configuration.
//
// Configuration lives in TOML, by default at ~/.config/movieflix/config.toml
// with ./movieflix.toml as a project-local fallback. Environment variables
// override the API base URL so the same binary can target local, staging, and
// hosted backends without editing the file. Load always returns a config with
// paths expanded and defaults applied; callers never see raw user input.
package config
