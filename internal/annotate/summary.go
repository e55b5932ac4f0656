package annotate

import (
	"microtag/internal/network"
	"microtag/internal/table"
	"microtag/internal/tiering"
)

// TierCount counts the features positive for one tier.
type TierCount struct {
	Tier   string `json:"tier"`
	Column string `json:"column"`
	// Direct rows carry the tier marker themselves.
	Direct int `json:"direct"`
	// Network rows sit in a cluster with at least one direct positive.
	Network int `json:"network"`
	// Clusters is the number of distinct positive clusters.
	Clusters int `json:"clusters"`
}

// Summarize counts direct and network positives for every tier of an
// annotated table.
func Summarize(t *table.Table, tiers []tiering.Tier) ([]TierCount, error) {
	out := make([]TierCount, 0, len(tiers))
	for _, tier := range tiers {
		direct, err := t.Column(tier.Column)
		if err != nil {
			return nil, err
		}
		marks, err := t.Column(tier.Column + network.NetworkSuffix)
		if err != nil {
			return nil, err
		}
		clusters, err := t.Column(tier.Column + network.ClusterSuffix)
		if err != nil {
			return nil, err
		}

		count := TierCount{Tier: tier.Name, Column: tier.Column}
		seen := make(map[string]struct{})
		for i := range direct {
			if tiering.IsPositive(direct[i]) {
				count.Direct++
			}
			if tiering.IsPositive(marks[i]) {
				count.Network++
			}
			if id, ok := clusters[i].Get(); ok {
				seen[id] = struct{}{}
			}
		}
		count.Clusters = len(seen)
		out = append(out, count)
	}
	return out, nil
}
