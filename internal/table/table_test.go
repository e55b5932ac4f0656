package table_test

import (
	"errors"
	"testing"

	"microtag/internal/table"
)

func TestValueMissingIsDistinctFromEmpty(t *testing.T) {
	if !table.Missing.IsMissing() {
		t.Fatal("expected Missing to be missing")
	}
	empty := table.Str("")
	if empty.IsMissing() {
		t.Fatal("expected empty string to be present")
	}
	if got := table.Missing.String(); got != "nan" {
		t.Fatalf("missing renders as %q, want nan", got)
	}
	if empty.Equal("x") || !empty.Equal("") {
		t.Fatal("unexpected Equal result for empty value")
	}
	if table.Missing.Equal("") {
		t.Fatal("missing must not equal the empty string")
	}
}

func TestWithColumnReturnsNewTable(t *testing.T) {
	base, err := table.FromColumns("features", []string{"id"}, [][]table.Value{table.Strs("1", "2")})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	extended, err := base.WithColumn("score", table.Strs("a", "b"))
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	if base.HasColumn("score") {
		t.Fatal("source table gained a column")
	}
	if got := extended.Columns(); len(got) != 2 || got[1] != "score" {
		t.Fatalf("unexpected columns: %v", got)
	}
	if extended.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", extended.Len())
	}
}

func TestWithColumnRejectsBadInput(t *testing.T) {
	base, err := table.FromColumns("features", []string{"id"}, [][]table.Value{table.Strs("1", "2")})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if _, err := base.WithColumn("id", table.Strs("x", "y")); err == nil {
		t.Fatal("expected duplicate column error")
	}
	if _, err := base.WithColumn("short", table.Strs("x")); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRequireNamesMissingColumn(t *testing.T) {
	base, err := table.New("npatlas.tsv", "npaid")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = base.Require("npaid", "compound_inchikey")
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mce *table.MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %T", err)
	}
	if mce.Column != "compound_inchikey" || mce.Table != "npatlas.tsv" {
		t.Fatalf("unexpected error detail: %+v", mce)
	}
}

func TestWithoutDropsColumn(t *testing.T) {
	base, err := table.FromColumns("f", []string{"Unnamed: 0", "id"}, [][]table.Value{
		table.Strs("0", "1"),
		table.Strs("a", "b"),
	})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	dropped, err := base.Without("Unnamed: 0")
	if err != nil {
		t.Fatalf("Without: %v", err)
	}
	if dropped.HasColumn("Unnamed: 0") || !base.HasColumn("Unnamed: 0") {
		t.Fatal("Without must only affect the returned table")
	}
	cell, err := dropped.Cell(1, "id")
	if err != nil || !cell.Equal("b") {
		t.Fatalf("unexpected cell %v (%v)", cell, err)
	}
	if _, err := dropped.Without("nope"); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
