package annotate_test

import (
	"errors"
	"strings"
	"testing"

	"microtag/internal/annotate"
	"microtag/internal/evidence"
	"microtag/internal/network"
	"microtag/internal/reference"
	"microtag/internal/table"
	"microtag/internal/tiering"
)

func mustTable(t *testing.T, name string, cols []string, values [][]table.Value) *table.Table {
	t.Helper()
	tbl, err := table.FromColumns(name, cols, values)
	if err != nil {
		t.Fatalf("FromColumns %s: %v", name, err)
	}
	return tbl
}

func features(t *testing.T, n int, ids map[string][]table.Value, clusters []string) *table.Table {
	t.Helper()
	cols := []string{"Unnamed: 0", "componentindex"}
	index := make([]string, n)
	for i := range index {
		index[i] = string(rune('0' + i))
	}
	values := [][]table.Value{table.Strs(index...), table.Strs(clusters...)}
	for _, tool := range evidence.DefaultTools() {
		cols = append(cols, tool.Column)
		col, ok := ids[tool.Column]
		if !ok {
			col = table.MissingColumn(n)
		}
		values = append(values, col)
	}
	return mustTable(t, "features.tsv", cols, values)
}

func catalogues(t *testing.T) []*reference.Database {
	t.Helper()
	np, err := reference.FromTable(mustTable(t, "npatlas.tsv", reference.NPAtlasSchema().Columns(), [][]table.Value{
		table.Strs("ABCDEFGHIJKLMN-XXXXXXXX-X", "ABCDEFGHIJKLMN-YYYYYYYY-Y"),
		table.Strs("NPA12345", "NPA12346"),
		table.Strs("Examplomycin", "Examplomycin B"),
		table.Strs("Bacterium", "Bacterium"),
		table.Strs("Streptomyces", "Streptomyces"),
		table.Strs("Streptomyces sp.", "Streptomyces sp."),
		table.MissingColumn(2),
	}), reference.NPAtlasSchema())
	if err != nil {
		t.Fatalf("npatlas: %v", err)
	}
	mb, err := reference.FromTable(mustTable(t, "mibig.csv", reference.MIBiGSchema().Columns(), [][]table.Value{
		table.Strs("ZZZZZZZZZZZZZZ-UHFFFAOYSA-N"),
		table.Strs("BGC0000001"),
		table.Strs("Streptomyces coelicolor"),
		table.Strs("actinorhodin"),
		table.Strs("1902"),
	}), reference.MIBiGSchema())
	if err != nil {
		t.Fatalf("mibig: %v", err)
	}
	return []*reference.Database{np, mb}
}

func defaultOptions() annotate.Options {
	return annotate.Options{
		IndexColumn: "Unnamed: 0",
		Network:     network.Options{ClusterColumn: "componentindex", NoCluster: -1},
	}
}

func cell(t *testing.T, tbl *table.Table, row int, column string) table.Value {
	t.Helper()
	v, err := tbl.Cell(row, column)
	if err != nil {
		t.Fatalf("cell %s[%d]: %v", column, row, err)
	}
	return v
}

func TestAnnotateLibraryMatchOnNPAtlas(t *testing.T) {
	in := features(t, 2, map[string][]table.Value{
		"gnps_inchikey": {table.Str("ABCDEFGHIJKLMN-UHFFFAOYSA-N"), table.Missing},
	}, []string{"4", "5"})

	out, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	for _, col := range []string{"is_microbial_A", "is_microbial_AB", "is_microbial_ABC"} {
		if !tiering.IsPositive(cell(t, out, 0, col)) {
			t.Fatalf("%s should be positive", col)
		}
	}
	for _, col := range []string{"is_microbial_B", "is_microbial_C"} {
		if !cell(t, out, 0, col).IsMissing() {
			t.Fatalf("%s should be missing, got %v", col, cell(t, out, 0, col))
		}
	}
	if got := cell(t, out, 0, tiering.ToolColumn); !got.Equal("gnps_npatlas") {
		t.Fatalf("tool = %v", got)
	}
	if got := cell(t, out, 0, tiering.ToolIDColumn); !got.Equal("NPA12345;NPA12346") {
		t.Fatalf("tool_id = %v", got)
	}
	if got := cell(t, out, 0, "gnps_npatlas_compound_names"); !got.Equal("Examplomycin|Examplomycin B") {
		t.Fatalf("aggregated names = %v", got)
	}
	if got := cell(t, out, 0, "gnps_npatlas_mibig_ids"); !got.Equal("nan|nan") {
		t.Fatalf("aggregated mibig ids = %v", got)
	}
	if out.HasColumn("Unnamed: 0") {
		t.Fatal("index column should be dropped")
	}
	if !in.HasColumn("Unnamed: 0") || in.HasColumn("is_microbial_A") {
		t.Fatal("input table was modified")
	}
	if !cell(t, out, 1, tiering.ToolColumn).IsMissing() {
		t.Fatal("unmatched row should have missing tool summary")
	}
}

func TestAnnotatePreservesRowCount(t *testing.T) {
	in := features(t, 4, map[string][]table.Value{
		"gnps_inchikey":     table.Strs("ABCDEFGHIJKLMN-A", "ABCDEFGHIJKLMN-B", "NOMATCH", "ABCDEFGHIJKLMN"),
		"analog_inchikey":   table.Strs("ABCDEFGHIJKLMN-C", "", "", ""),
		"insilico_inchikey": {table.Missing, table.Str("ZZZZZZZZZZZZZZ-Q"), table.Missing, table.Missing},
	}, []string{"1", "1", "-1", "2"})

	out, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if out.Len() != in.Len() {
		t.Fatalf("row count changed: %d -> %d", in.Len(), out.Len())
	}
	if !tiering.IsPositive(cell(t, out, 3, "is_microbial_A")) {
		t.Fatal("identifier without separator should match on its whole value")
	}
	if got := cell(t, out, 1, tiering.ToolColumn); !got.Equal("gnps_npatlas|insilico_mibig") {
		t.Fatalf("row 1 tool = %v", got)
	}
	if got := cell(t, out, 2, "is_microbial_ABC"); !got.IsMissing() {
		t.Fatalf("row 2 should have no tier, got %v", got)
	}
}

func TestAnnotateFailsFastOnMissingToolColumn(t *testing.T) {
	in := features(t, 1, nil, []string{"1"})
	stripped, err := in.Without("derep_inchikey")
	if err != nil {
		t.Fatalf("Without: %v", err)
	}
	_, err = annotate.Annotate(stripped, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	var missing *table.MissingColumnError
	if !errors.As(err, &missing) || missing.Column != "derep_inchikey" {
		t.Fatalf("expected missing derep_inchikey, got %v", err)
	}
}

func TestAnnotateRejectsFractionalClusterID(t *testing.T) {
	in := features(t, 3, map[string][]table.Value{
		"gnps_inchikey": {table.Str("ABCDEFGHIJKLMN-UHFFFAOYSA-N"), table.Missing, table.Missing},
	}, []string{"12.5", "12", "010"})

	_, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	if err == nil {
		t.Fatal("expected error for cluster id 12.5")
	}
	if !strings.Contains(err.Error(), "row 1") || !strings.Contains(err.Error(), "12.5") {
		t.Fatalf("error should name the row and value: %v", err)
	}
}

func TestAnnotateKeepsDecimalClusterIDsApart(t *testing.T) {
	in := features(t, 3, map[string][]table.Value{
		"gnps_inchikey": {table.Str("ABCDEFGHIJKLMN-UHFFFAOYSA-N"), table.Missing, table.Missing},
	}, []string{"10", "010", "8"})

	out, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if !cell(t, out, 1, "is_microbial_A_network_cluster").Equal("10") {
		t.Fatalf("010 should read as cluster 10, got %v", cell(t, out, 1, "is_microbial_A_network_cluster"))
	}
	if got := cell(t, out, 2, "is_microbial_A_network"); !got.IsMissing() {
		t.Fatalf("cluster 8 should not be marked, got %v", got)
	}
}

func TestAnnotateRequiresClusterColumn(t *testing.T) {
	in := features(t, 1, nil, []string{"1"})
	opts := defaultOptions()
	opts.Network.ClusterColumn = "cluster_index"
	if _, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), opts); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestSummarizeCountsTiers(t *testing.T) {
	in := features(t, 4, map[string][]table.Value{
		"gnps_inchikey":  {table.Str("ABCDEFGHIJKLMN-A"), table.Missing, table.Missing, table.Missing},
		"derep_inchikey": {table.Missing, table.Missing, table.Str("ZZZZZZZZZZZZZZ-A"), table.Missing},
	}, []string{"1", "1", "-1", "2"})
	out, err := annotate.Annotate(in, catalogues(t), evidence.DefaultTools(), tiering.DefaultTiers(), defaultOptions())
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	counts, err := annotate.Summarize(out, tiering.DefaultTiers())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := map[string]annotate.TierCount{
		"A":   {Direct: 1, Network: 2, Clusters: 1},
		"B":   {Direct: 1, Network: 0, Clusters: 0},
		"C":   {},
		"AB":  {Direct: 2, Network: 2, Clusters: 1},
		"ABC": {Direct: 2, Network: 2, Clusters: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d counts, got %d", len(want), len(counts))
	}
	for _, c := range counts {
		w := want[c.Tier]
		if c.Direct != w.Direct || c.Network != w.Network || c.Clusters != w.Clusters {
			t.Fatalf("tier %s: got %+v want %+v", c.Tier, c, w)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := annotate.OutputPath("/data/features.tsv", "_microbial"); got != "/data/features_microbial.tsv" {
		t.Fatalf("unexpected output path %q", got)
	}
}
