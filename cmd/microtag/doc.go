// Package main hosts the microtag CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// command-line overrides and hands the work to internal/annotate. Results are
// printed as tables for people or JSON for scripts; logs go to stderr.
//
// Keep this package lean: new behavior belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
