package reference

import (
	"fmt"
	"strings"

	"microtag/internal/identifier"
	"microtag/internal/table"
)

// Delimiter joins the values of one key inside an aggregated field.
const Delimiter = "|"

// Database is a loaded catalogue with its normalized key column in place.
type Database struct {
	Schema Schema
	Table  *table.Table
}

// KeyColumn returns the name of the normalized key column.
func (d *Database) KeyColumn() string {
	return identifier.KeyColumn(d.Schema.IdentifierColumn)
}

// Load reads the catalogue at path, verifies every schema column is present
// and derives the key column.
func Load(path string, schema Schema) (*Database, error) {
	if !schema.hasField(schema.AccessionColumn) {
		return nil, fmt.Errorf("%s schema: accession column %q is not listed in fields", schema.Name, schema.AccessionColumn)
	}
	t, err := table.ReadFile(path, table.ReadOptions{Comma: schema.Comma})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Label, err)
	}
	return FromTable(t, schema)
}

// FromTable wraps an already parsed catalogue table.
func FromTable(t *table.Table, schema Schema) (*Database, error) {
	if err := t.Require(schema.Columns()...); err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Label, err)
	}
	keyed, err := identifier.AddKeyColumn(t, schema.IdentifierColumn)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Label, err)
	}
	return &Database{Schema: schema, Table: keyed}, nil
}

// Aggregated collapses the database per key with every output column
// prefixed by prefix.
func (d *Database) Aggregated(prefix string) (*table.Table, error) {
	return Aggregate(d.Table, d.KeyColumn(), d.Schema.Fields, prefix)
}

// Aggregate groups t by keyColumn and pipe-joins every field per group.
// Rows with a missing key belong to no group. The output holds one row per
// distinct key in first-seen order; its columns are prefix+keyColumn followed
// by prefix+field for each field.
func Aggregate(t *table.Table, keyColumn string, fields []string, prefix string) (*table.Table, error) {
	keys, err := t.Column(keyColumn)
	if err != nil {
		return nil, err
	}
	sources := make([][]table.Value, len(fields))
	for i, f := range fields {
		if sources[i], err = t.Column(f); err != nil {
			return nil, err
		}
	}

	groupOf := make(map[string]int)
	var order []string
	var members [][]int
	for row, v := range keys {
		key, ok := v.Get()
		if !ok {
			continue
		}
		g, seen := groupOf[key]
		if !seen {
			g = len(order)
			groupOf[key] = g
			order = append(order, key)
			members = append(members, nil)
		}
		members[g] = append(members[g], row)
	}

	columns := make([]string, 0, len(fields)+1)
	values := make([][]table.Value, 0, len(fields)+1)
	columns = append(columns, prefix+keyColumn)
	values = append(values, table.Strs(order...))

	parts := make([]string, 0, 4)
	for i, f := range fields {
		out := make([]table.Value, len(order))
		for g, rows := range members {
			parts = parts[:0]
			for _, row := range rows {
				parts = append(parts, sources[i][row].String())
			}
			out[g] = table.Str(strings.Join(parts, Delimiter))
		}
		columns = append(columns, prefix+f)
		values = append(values, out)
	}

	return table.FromColumns(prefixedName(t.Name(), prefix), columns, values)
}

func prefixedName(name, prefix string) string {
	p := strings.TrimSuffix(prefix, "_")
	switch {
	case p == "":
		return name
	case name == "":
		return p
	default:
		return name + "[" + p + "]"
	}
}
