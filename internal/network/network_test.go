package network_test

import (
	"strings"
	"testing"

	"microtag/internal/network"
	"microtag/internal/table"
	"microtag/internal/tiering"
)

var opts = network.Options{ClusterColumn: "componentindex", NoCluster: network.NoCluster}

func fixture(t *testing.T) *table.Table {
	t.Helper()
	yes := table.Str(tiering.Marker)
	tbl, err := table.FromColumns("features.tsv",
		[]string{"id", "componentindex", "is_microbial_A", "is_microbial_B"},
		[][]table.Value{
			table.Strs("F1", "F2", "F3", "F4", "F5", "F6", "F7"),
			{table.Str("1"), table.Str("1"), table.Str("2"), table.Str("-1"), table.Str("-1"), table.Str("3.0"), table.Missing},
			{yes, table.Missing, table.Missing, yes, table.Missing, table.Missing, yes},
			{table.Missing, table.Missing, yes, table.Missing, table.Missing, table.Missing, table.Missing},
		})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	return tbl
}

func column(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	col, err := tbl.Column(name)
	if err != nil {
		t.Fatalf("column %s: %v", name, err)
	}
	return col
}

func TestPropagateMarksWholeCluster(t *testing.T) {
	out, err := network.Propagate(fixture(t), "is_microbial_A", opts)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	marks := column(t, out, "is_microbial_A_network")
	ids := column(t, out, "is_microbial_A_network_cluster")

	wantMark := []bool{true, true, false, false, false, false, false}
	for i, want := range wantMark {
		if got := tiering.IsPositive(marks[i]); got != want {
			t.Fatalf("row %d network mark = %v, want %v", i, got, want)
		}
		if want && !ids[i].Equal("1") {
			t.Fatalf("row %d cluster id = %v, want 1", i, ids[i])
		}
		if !want && (!marks[i].IsMissing() || !ids[i].IsMissing()) {
			t.Fatalf("row %d expected missing network columns, got %v / %v", i, marks[i], ids[i])
		}
	}
}

func TestPropagateTiersIndependently(t *testing.T) {
	out, err := network.PropagateAll(fixture(t), []string{"is_microbial_A", "is_microbial_B"}, opts)
	if err != nil {
		t.Fatalf("PropagateAll: %v", err)
	}
	a := column(t, out, "is_microbial_A_network")
	b := column(t, out, "is_microbial_B_network")
	if tiering.IsPositive(a[2]) {
		t.Fatal("tier B evidence leaked into tier A propagation")
	}
	if !tiering.IsPositive(b[2]) || tiering.IsPositive(b[0]) {
		t.Fatalf("unexpected tier B propagation: %v", b)
	}
}

func TestPropagationClosureAndSuperset(t *testing.T) {
	tbl := fixture(t)
	out, err := network.Propagate(tbl, "is_microbial_A", opts)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	clusters, err := network.ParseClusterIDs(out, opts)
	if err != nil {
		t.Fatalf("ParseClusterIDs: %v", err)
	}
	direct := column(t, out, "is_microbial_A")
	marks := column(t, out, "is_microbial_A_network")

	status := map[int64]bool{}
	for i := range marks {
		if !clusters.InCluster[i] {
			continue
		}
		got := tiering.IsPositive(marks[i])
		if prev, ok := status[clusters.IDs[i]]; ok && prev != got {
			t.Fatalf("cluster %d has mixed propagation status", clusters.IDs[i])
		}
		status[clusters.IDs[i]] = got
		if tiering.IsPositive(direct[i]) && !got {
			t.Fatalf("row %d is positive but not propagated", i)
		}
	}
}

func TestParseClusterIDs(t *testing.T) {
	clusters, err := network.ParseClusterIDs(fixture(t), opts)
	if err != nil {
		t.Fatalf("ParseClusterIDs: %v", err)
	}
	if clusters.IDs[5] != 3 || !clusters.InCluster[5] {
		t.Fatalf("expected integral decimal to parse, got %d", clusters.IDs[5])
	}
	if clusters.InCluster[3] || clusters.InCluster[6] {
		t.Fatal("sentinel and missing ids must be outside any cluster")
	}

	ids := map[string]int64{"12": 12, "010": 10, "+4": 4, "12.0": 12, "7.": 7, "-1.00": -1}
	for raw, want := range ids {
		tbl, err := table.FromColumns("f", []string{"componentindex"}, [][]table.Value{table.Strs(raw)})
		if err != nil {
			t.Fatalf("FromColumns: %v", err)
		}
		got, err := network.ParseClusterIDs(tbl, opts)
		if err != nil {
			t.Fatalf("ParseClusterIDs(%q): %v", raw, err)
		}
		if got.IDs[0] != want {
			t.Fatalf("ParseClusterIDs(%q) = %d, want %d", raw, got.IDs[0], want)
		}
	}

	for _, raw := range []string{"one", "12.5", "0x10", "1_000", "1e3", ".0", "-", "12.0.0"} {
		tbl, err := table.FromColumns("f", []string{"componentindex"}, [][]table.Value{table.Strs("1", raw)})
		if err != nil {
			t.Fatalf("FromColumns: %v", err)
		}
		_, err = network.ParseClusterIDs(tbl, opts)
		if err == nil {
			t.Fatalf("expected error for cluster id %q", raw)
		}
		if !strings.Contains(err.Error(), "row 2") {
			t.Fatalf("error should name the row: %v", err)
		}
	}
}

func TestFractionalClusterIDDoesNotJoinCluster(t *testing.T) {
	yes := table.Str(tiering.Marker)
	tbl, err := table.FromColumns("features.tsv",
		[]string{"componentindex", "is_microbial_A"},
		[][]table.Value{
			table.Strs("12.5", "12", "010"),
			{yes, table.Missing, table.Missing},
		})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if _, err := network.Propagate(tbl, "is_microbial_A", opts); err == nil {
		t.Fatal("expected fractional cluster id to be rejected")
	}
}

func TestPropagateRecordsPositiveClusterIDs(t *testing.T) {
	out, err := network.Propagate(fixture(t), "is_microbial_B", opts)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	seen := map[string]struct{}{}
	for _, v := range column(t, out, "is_microbial_B"+network.ClusterSuffix) {
		if id, ok := v.Get(); ok {
			seen[id] = struct{}{}
		}
	}
	if _, ok := seen["2"]; !ok || len(seen) != 1 {
		t.Fatalf("unexpected positive clusters: %v", seen)
	}
}
