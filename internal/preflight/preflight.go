package preflight

import (
	"path/filepath"

	"microtag/internal/config"
	"microtag/internal/reference"
	"microtag/internal/table"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every applicable check for cfg. Unset input paths are
// skipped; ValidateInputs reports them.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if path := cfg.Paths.FeatureTable; path != "" {
		required := make([]string, 0, len(cfg.Tools)+2)
		for _, tool := range cfg.Tools {
			required = append(required, tool.Column)
		}
		required = append(required, cfg.Columns.Cluster)
		if cfg.Columns.Index != "" {
			required = append(required, cfg.Columns.Index)
		}
		results = append(results, CheckTableColumns("Feature table", path, 0, required))
	}

	for _, db := range []struct {
		path   string
		schema func() (reference.Schema, error)
	}{
		{cfg.Paths.NPAtlas, cfg.NPAtlasSchema},
		{cfg.Paths.MIBiG, cfg.MIBiGSchema},
	} {
		if db.path == "" {
			continue
		}
		schema, err := db.schema()
		if err != nil {
			results = append(results, Result{Name: db.path, Detail: err.Error()})
			continue
		}
		results = append(results, CheckTableColumns(schema.Label, db.path, schema.Comma, schema.Columns()))
	}

	if output := cfg.OutputPath(); output != "" {
		results = append(results, CheckDirectoryAccess("Output directory", filepath.Dir(output)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

func headerColumns(path string, comma rune) ([]string, error) {
	return table.ReadHeader(path, table.ReadOptions{Comma: comma})
}
