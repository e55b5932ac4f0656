package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"microtag/internal/config"
	"microtag/internal/evidence"
	"microtag/internal/logging"
	"microtag/internal/reference"
	"microtag/internal/runstore"
	"microtag/internal/table"
	"microtag/internal/tiering"
)

// ErrOutputLocked is returned when another process holds the output lock.
var ErrOutputLocked = errors.New("output is locked by another run")

// Request selects the files for one run. Empty paths fall back to the
// runner's configuration.
type Request struct {
	FeaturesPath string
	NPAtlasPath  string
	MIBiGPath    string
	OutputPath   string
	// ConfigPath is stored with the run history entry.
	ConfigPath  string
	SkipHistory bool
}

// Result describes a completed run.
type Result struct {
	RunID      string        `json:"run_id"`
	OutputPath string        `json:"output_path"`
	Rows       int           `json:"rows"`
	Counts     []TierCount   `json:"tiers"`
	Duration   time.Duration `json:"duration_ns"`
	Recorded   bool          `json:"recorded"`
}

// Runner executes annotation runs for one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	tiers  []tiering.Tier
	now    func() time.Time

	npatlas reference.Schema
	mibig   reference.Schema
	tools   []evidence.Tool
}

// NewRunner resolves the catalogue schemas and the tool catalogue from cfg,
// failing on an invalid delimiter or tool class. A nil logger
// discards output.
func NewRunner(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires config")
	}
	npatlas, err := cfg.NPAtlasSchema()
	if err != nil {
		return nil, fmt.Errorf("npatlas settings: %w", err)
	}
	mibig, err := cfg.MIBiGSchema()
	if err != nil {
		return nil, fmt.Errorf("mibig settings: %w", err)
	}
	tools, err := cfg.AnnotationTools()
	if err != nil {
		return nil, fmt.Errorf("tool settings: %w", err)
	}
	return &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "annotate"),
		tiers:   tiering.DefaultTiers(),
		now:     time.Now,
		npatlas: npatlas,
		mibig:   mibig,
		tools:   tools,
	}, nil
}

type runPaths struct {
	features string
	npatlas  string
	mibig    string
	output   string
}

func (r *Runner) resolve(req Request) (runPaths, error) {
	p := runPaths{
		features: firstNonEmpty(req.FeaturesPath, r.cfg.Paths.FeatureTable),
		npatlas:  firstNonEmpty(req.NPAtlasPath, r.cfg.Paths.NPAtlas),
		mibig:    firstNonEmpty(req.MIBiGPath, r.cfg.Paths.MIBiG),
		output:   firstNonEmpty(req.OutputPath, r.cfg.Paths.Output),
	}
	switch {
	case p.features == "":
		return p, errors.New("feature table path is required")
	case p.npatlas == "":
		return p, errors.New("NPAtlas path is required")
	case p.mibig == "":
		return p, errors.New("MIBiG path is required")
	}
	if p.output == "" {
		p.output = OutputPath(p.features, r.cfg.Paths.OutputSuffix)
	}
	for _, in := range []string{p.features, p.npatlas, p.mibig} {
		if filepath.Clean(in) == filepath.Clean(p.output) {
			return p, fmt.Errorf("output %s would overwrite an input table", p.output)
		}
	}
	return p, nil
}

// Run loads the inputs, annotates the feature table and writes the result.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := r.now()
	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	paths, err := r.resolve(req)
	if err != nil {
		return Result{}, err
	}
	tools := r.tools

	logger.Info("annotation started",
		logging.String("features", paths.features),
		logging.String(logging.FieldPath, paths.output),
		logging.Int("tools", len(tools)),
	)

	features, err := table.ReadFile(paths.features, table.ReadOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("load feature table: %w", err)
	}
	logger.Debug("feature table loaded",
		logging.String(logging.FieldStage, "load"),
		logging.Int(logging.FieldRows, features.Len()),
	)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var dbs []*reference.Database
	for _, src := range []struct {
		path   string
		schema reference.Schema
	}{{paths.npatlas, r.npatlas}, {paths.mibig, r.mibig}} {
		db, err := reference.Load(src.path, src.schema)
		if err != nil {
			return Result{}, err
		}
		logger.Debug("reference catalogue loaded",
			logging.String(logging.FieldStage, "load"),
			logging.String(logging.FieldDatabase, src.schema.Name),
			logging.Int(logging.FieldRows, db.Table.Len()),
		)
		dbs = append(dbs, db)
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	annotated, err := Annotate(features, dbs, tools, r.tiers, Options{
		IndexColumn: r.cfg.Columns.Index,
		Network:     r.cfg.NetworkOptions(),
	})
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	counts, err := Summarize(annotated, r.tiers)
	if err != nil {
		return Result{}, err
	}
	for _, c := range counts {
		logger.Info("tier assigned",
			logging.String(logging.FieldStage, "tiering"),
			logging.String(logging.FieldTier, c.Tier),
			logging.Int("direct", c.Direct),
			logging.Int("network", c.Network),
			logging.Int("clusters", c.Clusters),
		)
	}

	if err := writeLocked(paths.output, annotated); err != nil {
		return Result{}, err
	}

	finished := r.now()
	result := Result{
		RunID:      runID,
		OutputPath: paths.output,
		Rows:       annotated.Len(),
		Counts:     counts,
		Duration:   finished.Sub(started),
	}

	if r.cfg.History.Enabled && !req.SkipHistory {
		run := runstore.Run{
			ID:           runID,
			StartedAt:    started,
			FinishedAt:   finished,
			FeaturesPath: paths.features,
			NPAtlasPath:  paths.npatlas,
			MIBiGPath:    paths.mibig,
			OutputPath:   paths.output,
			Rows:         result.Rows,
			ConfigPath:   req.ConfigPath,
			Tiers:        storeCounts(counts),
		}
		if err := r.record(ctx, run); err != nil {
			logger.Warn("run history not recorded", logging.Error(err))
		} else {
			result.Recorded = true
		}
	}

	logger.Info("annotation written",
		logging.String(logging.FieldPath, paths.output),
		logging.Int(logging.FieldRows, result.Rows),
		logging.Duration(logging.FieldDuration, result.Duration),
	)
	return result, nil
}

// writeLocked writes t to path while holding an exclusive lock on
// path + ".lock". The lock file is removed before the lock is released.
func writeLocked(path string, t *table.Table) error {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrOutputLocked, path)
	}
	defer func() {
		_ = os.Remove(lock.Path())
		_ = lock.Unlock()
	}()

	if err := table.WriteFile(path, t, table.WriteOptions{}); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, run runstore.Run) error {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return err
	}
	store, err := runstore.Open(r.cfg.RunStorePath())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run)
}

func storeCounts(counts []TierCount) []runstore.TierCount {
	out := make([]runstore.TierCount, len(counts))
	for i, c := range counts {
		out[i] = runstore.TierCount{Tier: c.Tier, Direct: c.Direct, Network: c.Network, Clusters: c.Clusters}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
