package table

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is matched by every MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError names the table and the expected column that was absent.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("%s: missing column %q", e.Table, e.Column)
}

// Is lets errors.Is match ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Table is an ordered set of uniquely named, equal-length columns.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	data    [][]Value
	rows    int
}

// New returns an empty table with the given column names.
func New(name string, columns ...string) (*Table, error) {
	t := &Table{name: name, index: make(map[string]int, len(columns))}
	for _, col := range columns {
		if _, dup := t.index[col]; dup {
			return nil, fmt.Errorf("%s: duplicate column %q", t.label(), col)
		}
		t.index[col] = len(t.columns)
		t.columns = append(t.columns, col)
		t.data = append(t.data, nil)
	}
	return t, nil
}

// FromColumns builds a table from parallel name and value slices.
func FromColumns(name string, columns []string, values [][]Value) (*Table, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%s: %d column names for %d columns", name, len(columns), len(values))
	}
	t, err := New(name)
	if err != nil {
		return nil, err
	}
	for i, col := range columns {
		if t, err = t.WithColumn(col, values[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name returns the label used in error messages, usually the source file.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. Callers must not modify the slice.
func (t *Table) Column(name string) ([]Value, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Table: t.name, Column: name}
	}
	return t.data[i], nil
}

// Require fails with a MissingColumnError for the first absent column.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return &MissingColumnError{Table: t.name, Column: name}
		}
	}
	return nil
}

// WithColumn returns a new table with values appended as column name.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("%s: column %q already exists", t.label(), name)
	}
	if len(t.columns) > 0 && len(values) != t.rows {
		return nil, fmt.Errorf("%s: column %q has %d rows, table has %d", t.label(), name, len(values), t.rows)
	}
	out := t.shallowCopy(len(t.columns) + 1)
	out.index[name] = len(out.columns)
	out.columns = append(out.columns, name)
	out.data = append(out.data, values)
	out.rows = len(values)
	return out, nil
}

// Without returns a new table lacking the named column.
func (t *Table) Without(name string) (*Table, error) {
	drop, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Table: t.name, Column: name}
	}
	out := &Table{name: t.name, index: make(map[string]int, len(t.columns)-1), rows: t.rows}
	for i, col := range t.columns {
		if i == drop {
			continue
		}
		out.index[col] = len(out.columns)
		out.columns = append(out.columns, col)
		out.data = append(out.data, t.data[i])
	}
	return out, nil
}

// AppendRow adds a row in place. It is meant for building tables while
// reading; once a table is handed to the pipeline it is treated as immutable.
func (t *Table) AppendRow(values []Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%s: row has %d fields, want %d", t.label(), len(values), len(t.columns))
	}
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}
	t.rows++
	return nil
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.columns))
	for c := range t.columns {
		out[c] = t.data[c][i]
	}
	return out
}

// Cell returns the value at row i of the named column.
func (t *Table) Cell(i int, column string) (Value, error) {
	col, err := t.Column(column)
	if err != nil {
		return Missing, err
	}
	if i < 0 || i >= len(col) {
		return Missing, fmt.Errorf("%s: row %d out of range", t.label(), i)
	}
	return col[i], nil
}

func (t *Table) shallowCopy(capacity int) *Table {
	out := &Table{
		name:    t.name,
		columns: make([]string, len(t.columns), capacity),
		index:   make(map[string]int, capacity),
		data:    make([][]Value, len(t.data), capacity),
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	copy(out.data, t.data)
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

func (t *Table) label() string {
	if t.name == "" {
		return "table"
	}
	return t.name
}
