package testsupport

import (
	"path/filepath"
	"testing"

	"microtag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Input paths point inside the temp directory but the files are not created;
// use WithFixtures or the Write* helpers for that.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.FeatureTable = filepath.Join(base, "features.tsv")
	cfgVal.Paths.NPAtlas = filepath.Join(base, "npatlas.tsv")
	cfgVal.Paths.MIBiG = filepath.Join(base, "mibig.csv")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithFixtures writes the standard feature table and catalogue fixtures to
// the configured input paths.
func WithFixtures() ConfigOption {
	return func(b *configBuilder) {
		WriteFeatureTable(b.t, b.cfg.Paths.FeatureTable, FeatureRows())
		WriteNPAtlas(b.t, b.cfg.Paths.NPAtlas, NPAtlasRows())
		WriteMIBiG(b.t, b.cfg.Paths.MIBiG, MIBiGRows())
	}
}

// WithHistory toggles the run ledger.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithOutput sets an explicit output path relative to the temp directory.
func WithOutput(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Output = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
