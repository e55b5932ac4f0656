package config

import (
	"fmt"

	"microtag/internal/evidence"
	"microtag/internal/fileutil"
	"microtag/internal/network"
	"microtag/internal/reference"
)

// NPAtlasSchema returns the NPAtlas layout with configured overrides applied.
func (c *Config) NPAtlasSchema() (reference.Schema, error) {
	return schemaFor(reference.NPAtlasSchema(), c.NPAtlas)
}

// MIBiGSchema returns the MIBiG layout with configured overrides applied.
func (c *Config) MIBiGSchema() (reference.Schema, error) {
	return schemaFor(reference.MIBiGSchema(), c.MIBiG)
}

func schemaFor(base reference.Schema, db Database) (reference.Schema, error) {
	base.IdentifierColumn = db.IdentifierColumn
	base.AccessionColumn = db.AccessionColumn
	base.Fields = append([]string(nil), db.Fields...)
	comma, err := parseDelimiter(db.Delimiter)
	if err != nil {
		return reference.Schema{}, fmt.Errorf("%s delimiter: %w", base.Name, err)
	}
	if comma != 0 {
		base.Comma = comma
	}
	return base, nil
}

// AnnotationTools converts the tool catalogue.
func (c *Config) AnnotationTools() ([]evidence.Tool, error) {
	out := make([]evidence.Tool, 0, len(c.Tools))
	for _, t := range c.Tools {
		class, err := evidence.ParseClass(t.Class)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		out = append(out, evidence.Tool{Name: t.Name, Label: t.Label, Column: t.Column, Class: class})
	}
	return out, nil
}

// NetworkOptions returns the cluster settings for propagation.
func (c *Config) NetworkOptions() network.Options {
	return network.Options{ClusterColumn: c.Columns.Cluster, NoCluster: c.Columns.NoCluster}
}

// OutputPath returns the configured output path, or the feature table path
// with the output suffix inserted before its extension.
func (c *Config) OutputPath() string {
	if c.Paths.Output != "" {
		return c.Paths.Output
	}
	if c.Paths.FeatureTable == "" {
		return ""
	}
	return fileutil.InsertSuffix(c.Paths.FeatureTable, c.Paths.OutputSuffix)
}
