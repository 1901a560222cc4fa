// Package config loads, normalizes, and validates reachwatch configuration data.
//
// It supplies repository defaults (the CosmicArchive manifest URL and the
// Cosmic Reach itch.io page), reads TOML files, and honours environment
// fallbacks such as CSRF_TOKEN and LOG_LEVEL. A missing configuration file is
// normal: the defaults describe a complete run.
//
// The working directory keeps its relative form so the paths printed for fresh
// artifacts stay relative to where the command was launched.
package config
