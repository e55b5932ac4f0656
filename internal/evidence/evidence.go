// Package evidence joins the feature table against every aggregated reference
// catalogue, once per annotation tool and catalogue.
//
// The join sequence is an explicit list of Spec values folded over a running
// table by JoinAll. Each join sees the cumulative result of the previous ones,
// so columns added early stay in the output even though later joins never
// read them.
package evidence

import (
	"fmt"

	"microtag/internal/identifier"
	"microtag/internal/reference"
	"microtag/internal/table"
)

// Spec is one tool × catalogue join.
type Spec struct {
	Tool     Tool
	Database *reference.Database
}

// Specs pairs every tool with every database, tools outermost.
func Specs(tools []Tool, dbs []*reference.Database) []Spec {
	out := make([]Spec, 0, len(tools)*len(dbs))
	for _, tool := range tools {
		for _, db := range dbs {
			out = append(out, Spec{Tool: tool, Database: db})
		}
	}
	return out
}

// Label names the pairing in tool summaries, e.g. "gnps_npatlas".
func (s Spec) Label() string {
	return s.Tool.Name + "_" + s.Database.Schema.Name
}

// Prefix is prepended to every column this join adds.
func (s Spec) Prefix() string {
	return s.Label() + "_"
}

// IdentifierColumn is the joined normalized identifier; present exactly when
// the feature matched the catalogue.
func (s Spec) IdentifierColumn() string {
	return s.Prefix() + s.Database.KeyColumn()
}

// AccessionColumn is the joined catalogue accession list.
func (s Spec) AccessionColumn() string {
	return s.Prefix() + s.Database.Schema.AccessionColumn
}

// FieldColumn names the joined column for a schema field.
func (s Spec) FieldColumn(field string) string {
	return s.Prefix() + field
}

// PrepareFeatures checks every tool column exists and adds its key column.
func PrepareFeatures(features *table.Table, tools []Tool) (*table.Table, error) {
	cols := make([]string, len(tools))
	for i, tool := range tools {
		cols[i] = tool.Column
	}
	if err := features.Require(cols...); err != nil {
		return nil, err
	}
	out := features
	for _, tool := range tools {
		var err error
		if out, err = identifier.AddKeyColumn(out, tool.Column); err != nil {
			return nil, fmt.Errorf("normalize %s identifiers: %w", tool.Name, err)
		}
	}
	return out, nil
}

// Join left-joins features against spec.Database's aggregated catalogue on the
// tool's key column. Every feature row is kept exactly once; rows without a
// match get missing in the new columns.
func Join(features *table.Table, spec Spec) (*table.Table, error) {
	keys, err := features.Column(identifier.KeyColumn(spec.Tool.Column))
	if err != nil {
		return nil, fmt.Errorf("join %s: %w", spec.Label(), err)
	}
	ref, err := spec.Database.Aggregated(spec.Prefix())
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", spec.Label(), err)
	}
	refKeys, err := ref.Column(spec.IdentifierColumn())
	if err != nil {
		return nil, fmt.Errorf("join %s: %w", spec.Label(), err)
	}

	lookup := make(map[string]int, len(refKeys))
	for i, v := range refKeys {
		k, _ := v.Get()
		if _, dup := lookup[k]; dup {
			return nil, fmt.Errorf("join %s: duplicate reference key %q", spec.Label(), k)
		}
		lookup[k] = i
	}

	match := make([]int, len(keys))
	for i, v := range keys {
		match[i] = -1
		if k, ok := v.Get(); ok {
			if r, hit := lookup[k]; hit {
				match[i] = r
			}
		}
	}

	out := features
	for _, col := range ref.Columns() {
		src, _ := ref.Column(col)
		joined := make([]table.Value, len(match))
		for i, r := range match {
			if r >= 0 {
				joined[i] = src[r]
			}
		}
		if out, err = out.WithColumn(col, joined); err != nil {
			return nil, fmt.Errorf("join %s: %w", spec.Label(), err)
		}
	}
	return out, nil
}

// JoinAll folds features through every spec in order.
func JoinAll(features *table.Table, specs []Spec) (*table.Table, error) {
	out := features
	for _, spec := range specs {
		var err error
		if out, err = Join(out, spec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Present returns, per row, whether column holds a value.
func Present(t *table.Table, column string) ([]bool, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = !v.IsMissing()
	}
	return out, nil
}
