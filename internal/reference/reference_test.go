package reference_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"microtag/internal/reference"
	"microtag/internal/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAggregateCollapsesKeysPreservingAlignment(t *testing.T) {
	path := writeFile(t, "npatlas.tsv", "npaid\tcompound_inchikey\tcompound_names\torigin_type\tgenus\torigin_species\tmibig_ids\n"+
		"NPA1\tAAAAAAAAAAAAAA-UHFFFAOYSA-N\tfoo\tBacterium\tStreptomyces\tcoelicolor\tBGC1\n"+
		"NPA2\tAAAAAAAAAAAAAA-XXXXXXXX-X\tfoo B\tBacterium\t\tgriseus\t\n"+
		"NPA3\tBBBBBBBBBBBBBB-UHFFFAOYSA-N\tbar\tFungus\tAspergillus\tniger\t\n"+
		"NPA4\t\tbaz\tFungus\tPenicillium\tchrysogenum\t\n")

	db, err := reference.Load(path, reference.NPAtlasSchema())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	agg, err := db.Aggregated("gnps_npatlas_")
	if err != nil {
		t.Fatalf("Aggregated: %v", err)
	}

	if agg.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", agg.Len())
	}
	keys, err := agg.Column("gnps_npatlas_compound_inchikey_planar")
	if err != nil {
		t.Fatalf("key column: %v", err)
	}
	if !keys[0].Equal("AAAAAAAAAAAAAA") || !keys[1].Equal("BBBBBBBBBBBBBB") {
		t.Fatalf("unexpected keys: %v", keys)
	}

	want := map[string]string{
		"gnps_npatlas_npaid":          "NPA1|NPA2",
		"gnps_npatlas_compound_names": "foo|foo B",
		"gnps_npatlas_genus":          "Streptomyces|nan",
		"gnps_npatlas_mibig_ids":      "BGC1|nan",
	}
	for col, value := range want {
		cell, err := agg.Cell(0, col)
		if err != nil {
			t.Fatalf("cell %s: %v", col, err)
		}
		if !cell.Equal(value) {
			t.Fatalf("%s = %v, want %q", col, cell, value)
		}
	}
}

func TestAggregateKeysAreUnique(t *testing.T) {
	tbl, err := table.FromColumns("ref", []string{"k", "acc"}, [][]table.Value{
		table.Strs("A", "B", "A", "C", "B", "A"),
		table.Strs("1", "2", "3", "4", "5", "6"),
	})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	agg, err := reference.Aggregate(tbl, "k", []string{"acc"}, "p_")
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	keys, _ := agg.Column("p_k")
	seen := map[string]bool{}
	for _, k := range keys {
		s, _ := k.Get()
		if seen[s] {
			t.Fatalf("duplicate key %q after aggregation", s)
		}
		seen[s] = true
	}
	acc, _ := agg.Column("p_acc")
	if !acc[0].Equal("1|3|6") || !acc[1].Equal("2|5") || !acc[2].Equal("4") {
		t.Fatalf("unexpected aggregated accessions: %v", acc)
	}
}

func TestLoadFailsFastOnMissingColumn(t *testing.T) {
	path := writeFile(t, "mibig.csv", "compound_inchikey,mibig_accession,organism_name\nAAAAAAAAAAAAAA-UHFFFAOYSA-N,BGC0000001,Streptomyces\n")
	_, err := reference.Load(path, reference.MIBiGSchema())
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mce *table.MissingColumnError
	if !errors.As(err, &mce) || mce.Column != "compound_name" {
		t.Fatalf("expected missing compound_name, got %v", err)
	}
}

func TestLoadRejectsAccessionOutsideFields(t *testing.T) {
	schema := reference.MIBiGSchema()
	schema.AccessionColumn = "bgc_id"
	if _, err := reference.Load("unused.csv", schema); err == nil {
		t.Fatal("expected schema error")
	}
}
