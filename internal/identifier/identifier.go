// Package identifier derives the stereo-insensitive join key used to match
// chemical identifiers across annotation tools and reference databases.
//
// Identifiers are InChIKey-shaped strings. The key is the first block, the
// part before the first separator, which encodes the molecular skeleton
// without stereochemistry or protonation.
package identifier

import (
	"strings"

	"microtag/internal/table"
)

// Separator ends the structure-determining prefix of an identifier.
const Separator = "-"

// KeySuffix is appended to an identifier column name to name its key column.
const KeySuffix = "_planar"

// Key returns the part of id before the first Separator. A string without a
// separator is its own key.
func Key(id string) string {
	if i := strings.Index(id, Separator); i >= 0 {
		return id[:i]
	}
	return id
}

// Normalize maps a cell to its key. Missing and empty identifiers yield missing.
func Normalize(v table.Value) table.Value {
	id, ok := v.Get()
	if !ok || id == "" {
		return table.Missing
	}
	return table.Str(Key(id))
}

// NormalizeColumn returns a new column holding the key of every cell.
func NormalizeColumn(values []table.Value) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		out[i] = Normalize(v)
	}
	return out
}

// KeyColumn names the derived key column for an identifier column.
func KeyColumn(column string) string {
	return column + KeySuffix
}

// AddKeyColumn returns t extended with the key column derived from column.
// The identifier column itself is left untouched.
func AddKeyColumn(t *table.Table, column string) (*table.Table, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return t.WithColumn(KeyColumn(column), NormalizeColumn(values))
}
