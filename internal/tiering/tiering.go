// Package tiering derives the is_microbial confidence columns and the
// per-feature tool summary from joined evidence columns.
//
// Every predicate is computed over whole columns. A tier is the OR of the
// presence vectors of all joins whose tool class belongs to the tier; combined
// tiers are recomputed from the evidence columns rather than from other tier
// columns.
package tiering

import (
	"strings"

	"microtag/internal/evidence"
	"microtag/internal/reference"
	"microtag/internal/table"
)

// Marker is the literal written to a tier column for a positive row. Negative
// rows are missing.
const Marker = "yes"

const (
	// ToolColumn lists the matching tool/catalogue labels per row.
	ToolColumn = "tool"
	// ToolIDColumn lists the matched accessions, parallel to ToolColumn.
	ToolIDColumn = "tool_id"
	// ListDelimiter separates entries of ToolColumn and ToolIDColumn.
	ListDelimiter = "|"
	// IDDelimiter separates the accessions of one aggregated match inside a
	// single ToolIDColumn entry, keeping entry counts aligned with ToolColumn.
	IDDelimiter = ";"
)

// Tier is one confidence level.
type Tier struct {
	Name    string
	Column  string
	Classes []evidence.Class
}

// DefaultTiers returns A, B, C, AB and ABC in that order.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "A", Column: "is_microbial_A", Classes: []evidence.Class{evidence.Spectral}},
		{Name: "B", Column: "is_microbial_B", Classes: []evidence.Class{evidence.Dereplication}},
		{Name: "C", Column: "is_microbial_C", Classes: []evidence.Class{evidence.InSilico}},
		{Name: "AB", Column: "is_microbial_AB", Classes: []evidence.Class{evidence.Spectral, evidence.Dereplication}},
		{Name: "ABC", Column: "is_microbial_ABC", Classes: []evidence.Class{evidence.Spectral, evidence.Dereplication, evidence.InSilico}},
	}
}

// Includes reports whether the tier counts evidence of class c.
func (t Tier) Includes(c evidence.Class) bool {
	for _, k := range t.Classes {
		if k == c {
			return true
		}
	}
	return false
}

// IsPositive tests a tier cell for the marker.
func IsPositive(v table.Value) bool {
	return v.Equal(Marker)
}

// Evaluate appends one column per tier.
func Evaluate(t *table.Table, specs []evidence.Spec, tiers []Tier) (*table.Table, error) {
	present := make([][]bool, len(specs))
	for i, spec := range specs {
		var err error
		if present[i], err = evidence.Present(t, spec.IdentifierColumn()); err != nil {
			return nil, err
		}
	}

	out := t
	for _, tier := range tiers {
		hit := make([]bool, t.Len())
		for i, spec := range specs {
			if !tier.Includes(spec.Tool.Class) {
				continue
			}
			for row, ok := range present[i] {
				hit[row] = hit[row] || ok
			}
		}
		var err error
		if out, err = out.WithColumn(tier.Column, markers(hit)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func markers(hit []bool) []table.Value {
	out := make([]table.Value, len(hit))
	for i, ok := range hit {
		if ok {
			out[i] = table.Str(Marker)
		}
	}
	return out
}

// SummaryOrder sorts specs for the tool summary: databases in the order they
// first appear, then tool class, then the original order.
func SummaryOrder(specs []evidence.Spec) []evidence.Spec {
	var dbOrder []string
	seen := make(map[string]bool)
	for _, s := range specs {
		name := s.Database.Schema.Name
		if !seen[name] {
			seen[name] = true
			dbOrder = append(dbOrder, name)
		}
	}
	out := make([]evidence.Spec, 0, len(specs))
	for _, db := range dbOrder {
		for _, class := range evidence.Classes {
			for _, s := range specs {
				if s.Database.Schema.Name == db && s.Tool.Class == class {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// Summarize appends the tool and tool_id columns. A spec contributes to a row
// when its accession column is present there; its label goes to tool and the
// accession text to tool_id, so both lists always have the same length. An
// aggregated accession list is kept as one entry with IDDelimiter between ids.
// Rows without any match are missing in both.
func Summarize(t *table.Table, specs []evidence.Spec) (*table.Table, error) {
	ordered := SummaryOrder(specs)
	labels := make([][]string, t.Len())
	ids := make([][]string, t.Len())
	for _, spec := range ordered {
		acc, err := t.Column(spec.AccessionColumn())
		if err != nil {
			return nil, err
		}
		label := spec.Label()
		for row, v := range acc {
			id, ok := v.Get()
			if !ok {
				continue
			}
			labels[row] = append(labels[row], label)
			ids[row] = append(ids[row], strings.ReplaceAll(id, reference.Delimiter, IDDelimiter))
		}
	}

	out, err := t.WithColumn(ToolColumn, joinLists(labels))
	if err != nil {
		return nil, err
	}
	return out.WithColumn(ToolIDColumn, joinLists(ids))
}

func joinLists(lists [][]string) []table.Value {
	out := make([]table.Value, len(lists))
	for i, l := range lists {
		if len(l) > 0 {
			out[i] = table.Str(strings.Join(l, ListDelimiter))
		}
	}
	return out
}
