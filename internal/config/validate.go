package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"microtag/internal/evidence"
)

// Validate ensures the configuration is usable. Input paths are checked
// separately by ValidateInputs since command-line flags may still supply them.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateColumns(); err != nil {
		return err
	}
	if err := validateDatabase("npatlas", c.NPAtlas); err != nil {
		return err
	}
	if err := validateDatabase("mibig", c.MIBiG); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateInputs checks that every input table path is set.
func (c *Config) ValidateInputs() error {
	missing := make([]string, 0, 3)
	if c.Paths.FeatureTable == "" {
		missing = append(missing, "paths.feature_table (MICROTAG_FEATURES)")
	}
	if c.Paths.NPAtlas == "" {
		missing = append(missing, "paths.npatlas (MICROTAG_NPATLAS)")
	}
	if c.Paths.MIBiG == "" {
		missing = append(missing, "paths.mibig (MICROTAG_MIBIG)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("input paths not configured: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.ContainsAny(c.Paths.OutputSuffix, `/\`) {
		return errors.New("paths.output_suffix must not contain path separators")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateColumns() error {
	if c.Columns.Cluster == "" {
		return errors.New("columns.cluster must be set")
	}
	if c.Columns.Index != "" && c.Columns.Index == c.Columns.Cluster {
		return errors.New("columns.index and columns.cluster must differ")
	}
	return nil
}

func validateDatabase(section string, db Database) error {
	found := false
	for _, f := range db.Fields {
		if f == db.AccessionColumn {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%s.fields must include the accession column %q", section, db.AccessionColumn)
	}
	if _, err := parseDelimiter(db.Delimiter); err != nil {
		return fmt.Errorf("%s.delimiter: %w", section, err)
	}
	return nil
}

func (c *Config) validateTools() error {
	names := make(map[string]struct{}, len(c.Tools))
	columns := make(map[string]struct{}, len(c.Tools))
	for i, t := range c.Tools {
		if t.Name == "" {
			return fmt.Errorf("tools[%d].name must be set", i)
		}
		if t.Column == "" {
			return fmt.Errorf("tools[%d].column must be set", i)
		}
		if _, err := evidence.ParseClass(t.Class); err != nil {
			return fmt.Errorf("tools[%d].class: %w", i, err)
		}
		if _, dup := names[t.Name]; dup {
			return fmt.Errorf("tools: duplicate name %q", t.Name)
		}
		names[t.Name] = struct{}{}
		if _, dup := columns[t.Column]; dup {
			return fmt.Errorf("tools: column %q used twice", t.Column)
		}
		columns[t.Column] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func parseDelimiter(value string) (rune, error) {
	switch value {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("unsupported value %q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("unsupported value %q", value)
	}
	return r, nil
}
