package config

import (
	"fmt"
	"os"
	"strings"

	"microtag/internal/evidence"
	"microtag/internal/reference"
)

// Normalize applies defaults and path expansion. Load calls it; callers that
// change a loaded config, for example from command-line flags, call it again.
func (c *Config) Normalize() error {
	return c.normalize()
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeColumns()
	c.NPAtlas = normalizeDatabase(c.NPAtlas, reference.NPAtlasSchema())
	c.MIBiG = normalizeDatabase(c.MIBiG, reference.MIBiGSchema())
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	envFallback(&c.Paths.FeatureTable, "MICROTAG_FEATURES")
	envFallback(&c.Paths.NPAtlas, "MICROTAG_NPATLAS")
	envFallback(&c.Paths.MIBiG, "MICROTAG_MIBIG")

	var err error
	if c.Paths.FeatureTable, err = expandPath(strings.TrimSpace(c.Paths.FeatureTable)); err != nil {
		return fmt.Errorf("paths.feature_table: %w", err)
	}
	if c.Paths.NPAtlas, err = expandPath(strings.TrimSpace(c.Paths.NPAtlas)); err != nil {
		return fmt.Errorf("paths.npatlas: %w", err)
	}
	if c.Paths.MIBiG, err = expandPath(strings.TrimSpace(c.Paths.MIBiG)); err != nil {
		return fmt.Errorf("paths.mibig: %w", err)
	}
	if c.Paths.Output, err = expandPath(strings.TrimSpace(c.Paths.Output)); err != nil {
		return fmt.Errorf("paths.output: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputSuffix == "" {
		c.Paths.OutputSuffix = defaultOutputSuffix
	}
	return nil
}

func envFallback(target *string, key string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if value, ok := os.LookupEnv(key); ok {
		*target = strings.TrimSpace(value)
	}
}

func (c *Config) normalizeColumns() {
	c.Columns.Index = strings.TrimSpace(c.Columns.Index)
	c.Columns.Cluster = strings.TrimSpace(c.Columns.Cluster)
	if c.Columns.Cluster == "" {
		c.Columns.Cluster = defaultClusterColumn
	}
}

func normalizeDatabase(db Database, fallback reference.Schema) Database {
	db.IdentifierColumn = strings.TrimSpace(db.IdentifierColumn)
	if db.IdentifierColumn == "" {
		db.IdentifierColumn = fallback.IdentifierColumn
	}
	db.AccessionColumn = strings.TrimSpace(db.AccessionColumn)
	if db.AccessionColumn == "" {
		db.AccessionColumn = fallback.AccessionColumn
	}
	fields := make([]string, 0, len(db.Fields))
	seen := make(map[string]struct{}, len(db.Fields))
	for _, f := range db.Fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		fields = append(fields, fallback.Fields...)
	}
	db.Fields = fields
	db.Delimiter = strings.ToLower(strings.TrimSpace(db.Delimiter))
	return db
}

func (c *Config) normalizeTools() {
	if len(c.Tools) == 0 {
		for _, tool := range evidence.DefaultTools() {
			c.Tools = append(c.Tools, Tool{
				Name:   tool.Name,
				Label:  tool.Label,
				Column: tool.Column,
				Class:  tool.Class.String(),
			})
		}
		return
	}
	for i := range c.Tools {
		t := &c.Tools[i]
		t.Name = strings.ToLower(strings.TrimSpace(t.Name))
		t.Column = strings.TrimSpace(t.Column)
		t.Class = strings.ToLower(strings.TrimSpace(t.Class))
		t.Label = strings.TrimSpace(t.Label)
		if t.Label == "" {
			t.Label = t.Name
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
