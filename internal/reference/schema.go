package reference

// Schema describes which columns of a catalogue file are used.
type Schema struct {
	// Name is the short token used in column prefixes and tool labels.
	Name string
	// Label is a human-readable name for logs and summaries.
	Label string
	// IdentifierColumn holds the full chemical identifier.
	IdentifierColumn string
	// AccessionColumn holds the catalogue's own record id.
	AccessionColumn string
	// Fields are the metadata columns carried into the joined output, in order.
	// AccessionColumn must be one of them.
	Fields []string
	// Comma is the field delimiter; zero infers it from the file extension.
	Comma rune
}

// NPAtlasSchema returns the default layout of an NPAtlas export.
func NPAtlasSchema() Schema {
	return Schema{
		Name:             "npatlas",
		Label:            "NPAtlas",
		IdentifierColumn: "compound_inchikey",
		AccessionColumn:  "npaid",
		Fields: []string{
			"npaid",
			"compound_names",
			"origin_type",
			"genus",
			"origin_species",
			"mibig_ids",
		},
		Comma: '\t',
	}
}

// MIBiGSchema returns the default layout of a MIBiG compound export.
func MIBiGSchema() Schema {
	return Schema{
		Name:             "mibig",
		Label:            "MIBiG",
		IdentifierColumn: "compound_inchikey",
		AccessionColumn:  "mibig_accession",
		Fields: []string{
			"mibig_accession",
			"organism_name",
			"compound_name",
			"ncbi_tax_id",
		},
		Comma: ',',
	}
}

// Columns returns every column the schema reads from the file.
func (s Schema) Columns() []string {
	out := make([]string, 0, len(s.Fields)+1)
	out = append(out, s.IdentifierColumn)
	out = append(out, s.Fields...)
	return out
}

func (s Schema) hasField(name string) bool {
	for _, f := range s.Fields {
		if f == name {
			return true
		}
	}
	return false
}
