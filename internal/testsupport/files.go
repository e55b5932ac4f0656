package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FeatureHeader is the header of the fixture feature table. The leading empty
// name is the unnamed index column written by pandas.
var FeatureHeader = []string{
	"", "componentindex", "gnps_inchikey", "analog_inchikey",
	"derep_inchikey", "derepplus_inchikey", "insilico_inchikey",
}

// NPAtlasHeader is the NPAtlas fixture header.
var NPAtlasHeader = []string{
	"compound_inchikey", "npaid", "compound_names", "origin_type",
	"genus", "origin_species", "mibig_ids",
}

// MIBiGHeader is the MIBiG fixture header.
var MIBiGHeader = []string{
	"compound_inchikey", "mibig_accession", "organism_name", "compound_name", "ncbi_tax_id",
}

// FeatureRows returns five features:
//
//	0 cluster 7, GNPS hit on NPA12345
//	1 cluster 7, no hits
//	2 no cluster, in-silico hit on BGC0000001
//	3 cluster 9, no hits
//	4 cluster 9, Dereplicator hit on BGC0000001
func FeatureRows() [][]string {
	return [][]string{
		{"0", "7", "ABCDEFGHIJKLMN-OPQRSTUVWX-Y", "", "", "", ""},
		{"1", "7", "", "", "", "", ""},
		{"2", "-1", "", "", "", "", "QWERTYUIOPASDF-UHFFFAOYSA-N"},
		{"3", "9", "", "", "", "", ""},
		{"4", "9", "", "", "QWERTYUIOPASDF-ZZZZZZZZZZ-N", "", ""},
	}
}

// NPAtlasRows returns two NPAtlas entries.
func NPAtlasRows() [][]string {
	return [][]string{
		{"ABCDEFGHIJKLMN-ZZZZZZZZZZ-Z", "NPA12345", "Examplomycin", "Bacterium", "Streptomyces", "Streptomyces sp.", ""},
		{"ZYXWVUTSRQPONM-UHFFFAOYSA-N", "NPA00002", "Otherin", "Fungus", "Aspergillus", "Aspergillus niger", "BGC0000002"},
	}
}

// MIBiGRows returns two MIBiG entries sharing a normalized key.
func MIBiGRows() [][]string {
	return [][]string{
		{"QWERTYUIOPASDF-UHFFFAOYSA-N", "BGC0000001", "Streptomyces coelicolor", "actinorhodin", "1902"},
		{"QWERTYUIOPASDF-UHFFFAOYSA-M", "BGC0000003", "Streptomyces griseus", "actinorhodin", ""},
	}
}

// WriteFeatureTable writes a tab-separated feature table.
func WriteFeatureTable(t testing.TB, path string, rows [][]string) {
	t.Helper()
	WriteDelimited(t, path, '\t', FeatureHeader, rows)
}

// WriteNPAtlas writes a tab-separated NPAtlas export.
func WriteNPAtlas(t testing.TB, path string, rows [][]string) {
	t.Helper()
	WriteDelimited(t, path, '\t', NPAtlasHeader, rows)
}

// WriteMIBiG writes a comma-separated MIBiG export.
func WriteMIBiG(t testing.TB, path string, rows [][]string) {
	t.Helper()
	WriteDelimited(t, path, ',', MIBiGHeader, rows)
}

// WriteDelimited writes header and rows joined by comma. Fields are written
// verbatim, so fixtures must not contain the delimiter.
func WriteDelimited(t testing.TB, path string, comma rune, header []string, rows [][]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	sep := string(comma)
	var b strings.Builder
	b.WriteString(strings.Join(header, sep))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, sep))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
