// Package runstore persists the history of annotation runs in SQLite.
//
// Each completed run records its inputs, output path, row count and the
// per-tier feature counts so `microtag runs` can list and inspect previous
// invocations. The schema is embedded and versioned; a database written by a
// different schema version is rejected with ErrSchemaMismatch.
package runstore
