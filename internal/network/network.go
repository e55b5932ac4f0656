// Package network propagates tier calls across molecular-network clusters.
//
// Clusters are consumed as given: every feature carries a cluster id and the
// sentinel NoCluster marks singletons. A cluster is positive for a tier when
// any member is positive; every member of a positive cluster is then marked.
// Each tier is propagated independently.
package network

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"microtag/internal/table"
	"microtag/internal/tiering"
)

// NoCluster is the default cluster id of features outside any cluster.
const NoCluster int64 = -1

const (
	// NetworkSuffix names the propagated marker column of a tier.
	NetworkSuffix = "_network"
	// ClusterSuffix names the companion column holding the propagating cluster id.
	ClusterSuffix = "_network_cluster"
)

// Options configures cluster handling.
type Options struct {
	ClusterColumn string
	NoCluster     int64
}

// ClusterIDs holds one parsed cluster id per row; InCluster is false for
// missing ids and for the sentinel.
type ClusterIDs struct {
	IDs       []int64
	InCluster []bool
}

// ParseClusterIDs reads the cluster column. Ids are base-10 integers, and
// integral decimals such as "12.0" are accepted. Anything else is an error
// naming the row.
func ParseClusterIDs(t *table.Table, opts Options) (ClusterIDs, error) {
	values, err := t.Column(opts.ClusterColumn)
	if err != nil {
		return ClusterIDs{}, err
	}
	out := ClusterIDs{
		IDs:       make([]int64, len(values)),
		InCluster: make([]bool, len(values)),
	}
	for i, v := range values {
		raw, ok := v.Get()
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			out.IDs[i] = opts.NoCluster
			continue
		}
		id, err := parseClusterID(raw)
		if err != nil {
			return ClusterIDs{}, fmt.Errorf("%s row %d: cluster id %q is not an integer", t.Name(), i+1, raw)
		}
		out.IDs[i] = id
		out.InCluster[i] = id != opts.NoCluster
	}
	return out, nil
}

var errNotInteger = errors.New("not an integer")

// parseClusterID accepts "12", "-1", "12.0" and "12." but rejects fractions,
// exponents, digit separators and base prefixes.
func parseClusterID(raw string) (int64, error) {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	whole, frac, ok := strings.Cut(raw, ".")
	if !ok || strings.Trim(frac, "0") != "" {
		return 0, errNotInteger
	}
	return strconv.ParseInt(whole, 10, 64)
}

// Propagate appends <tier>_network and <tier>_network_cluster for one tier
// column.
func Propagate(t *table.Table, tierColumn string, opts Options) (*table.Table, error) {
	clusters, err := ParseClusterIDs(t, opts)
	if err != nil {
		return nil, err
	}
	return propagate(t, tierColumn, clusters)
}

// PropagateAll runs Propagate for every tier column, parsing clusters once.
func PropagateAll(t *table.Table, tierColumns []string, opts Options) (*table.Table, error) {
	clusters, err := ParseClusterIDs(t, opts)
	if err != nil {
		return nil, err
	}
	out := t
	for _, col := range tierColumns {
		if out, err = propagate(out, col, clusters); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func propagate(t *table.Table, tierColumn string, clusters ClusterIDs) (*table.Table, error) {
	tier, err := t.Column(tierColumn)
	if err != nil {
		return nil, err
	}

	positive := positiveSet(tier, clusters)
	marks := make([]table.Value, len(tier))
	ids := make([]table.Value, len(tier))
	for i := range tier {
		if !clusters.InCluster[i] {
			continue
		}
		id := clusters.IDs[i]
		if _, ok := positive[id]; ok {
			marks[i] = table.Str(tiering.Marker)
			ids[i] = table.Str(cast.ToString(id))
		}
	}

	out, err := t.WithColumn(tierColumn+NetworkSuffix, marks)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(tierColumn+ClusterSuffix, ids)
}

// positiveSet collects the clusters with at least one positive member.
// Sentinel rows are never sources.
func positiveSet(tier []table.Value, clusters ClusterIDs) map[int64]struct{} {
	out := make(map[int64]struct{})
	for i, v := range tier {
		if clusters.InCluster[i] && tiering.IsPositive(v) {
			out[clusters.IDs[i]] = struct{}{}
		}
	}
	return out
}
