// Package config loads and validates the application-level configuration.
//
// The application config lives in a TOML file (by default
// ~/.config/bnbscout/config.toml) and carries settings that apply to every
// search: directories, marketplace and AI service endpoints, notification
// topics, and logging. Per-search settings live in each search directory's
// config.yaml and are handled by the search package.
package config
