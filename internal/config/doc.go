// Package config loads, normalizes, and validates demobuilder configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and derives the per-project asset directories
// from the project root when they are not set explicitly. The Config type
// centralizes every knob the assembly pipeline and CLI need, so directories,
// encoder settings, and caption styling are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical encoder profiles, and clear validation errors.
package config
