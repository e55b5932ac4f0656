// Package table holds the in-memory, column-major tables that flow through the
// annotation pipeline, plus the delimited-file reader and writer used at its
// edges.
//
// Missing is a first-class cell state distinct from every string, including
// the empty string. Pipeline stages test presence with Value.IsMissing and
// never rely on truthiness of the contained text.
//
// Tables are values: WithColumn and Without return a new Table that shares the
// untouched column slices with its source. Stages fold a running table through
// these calls instead of mutating a shared accumulator, so earlier results stay
// valid for as long as a caller holds them.
package table
