package annotate

import (
	"fmt"

	"microtag/internal/evidence"
	"microtag/internal/fileutil"
	"microtag/internal/network"
	"microtag/internal/reference"
	"microtag/internal/table"
	"microtag/internal/tiering"
)

// Options carries the feature table layout.
type Options struct {
	// IndexColumn is removed from the result. Empty keeps every column.
	IndexColumn string
	Network     network.Options
}

// Annotate returns features extended with key, evidence, tier, summary and
// network columns. The input table is not modified and the row count is
// preserved. Every required column is checked before any work is done.
func Annotate(features *table.Table, dbs []*reference.Database, tools []evidence.Tool, tiers []tiering.Tier, opts Options) (*table.Table, error) {
	required := make([]string, 0, len(tools)+2)
	for _, tool := range tools {
		required = append(required, tool.Column)
	}
	required = append(required, opts.Network.ClusterColumn)
	if opts.IndexColumn != "" {
		required = append(required, opts.IndexColumn)
	}
	if err := features.Require(required...); err != nil {
		return nil, err
	}

	prepared, err := evidence.PrepareFeatures(features, tools)
	if err != nil {
		return nil, err
	}
	specs := evidence.Specs(tools, dbs)
	joined, err := evidence.JoinAll(prepared, specs)
	if err != nil {
		return nil, fmt.Errorf("join evidence: %w", err)
	}
	tiered, err := tiering.Evaluate(joined, specs, tiers)
	if err != nil {
		return nil, fmt.Errorf("assign tiers: %w", err)
	}
	summarized, err := tiering.Summarize(tiered, specs)
	if err != nil {
		return nil, fmt.Errorf("summarize tools: %w", err)
	}
	propagated, err := network.PropagateAll(summarized, tierColumns(tiers), opts.Network)
	if err != nil {
		return nil, fmt.Errorf("propagate tiers: %w", err)
	}
	if opts.IndexColumn == "" {
		return propagated, nil
	}
	return propagated.Without(opts.IndexColumn)
}

// OutputPath inserts suffix before the extension of input.
func OutputPath(input, suffix string) string {
	return fileutil.InsertSuffix(input, suffix)
}

func tierColumns(tiers []tiering.Tier) []string {
	out := make([]string, len(tiers))
	for i, tier := range tiers {
		out[i] = tier.Column
	}
	return out
}
