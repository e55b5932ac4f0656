// Package logging assembles the structured slog loggers used by microtag.
//
// It owns the console and JSON handlers, maps configured levels and formats to
// handler options, and fans records out to a log file when a log directory is
// configured. Console output goes to stderr so command results on stdout stay
// machine-readable.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same keys (component, stage, run_id, ...).
package logging
