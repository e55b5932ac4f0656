// Package config loads, normalizes, and validates microtag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// three input tables (MICROTAG_FEATURES, MICROTAG_NPATLAS, MICROTAG_MIBIG).
// The Config type centralizes the input and output paths, the feature table
// column names, the reference catalogue layouts and the annotation tool
// catalogue, and converts them into the types the pipeline packages consume.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, a complete tool catalogue, and clear validation errors.
package config
