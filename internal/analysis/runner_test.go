package analysis_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
	"github.com/gyaneshwarpardhi/tempreach/internal/config"
	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/metrics"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
	"github.com/gyaneshwarpardhi/tempreach/internal/paths"
)

func mv(src, dst string, day int) movement.Movement {
	return movement.Movement{Source: movement.NodeID(src), Destination: movement.NodeID(dst), Day: day}
}

func set(t *testing.T, ms ...movement.Movement) *movement.Set {
	t.Helper()
	s, err := movement.NewSet(ms)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return s
}

func TestRunSet_Chain(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	res, err := r.RunSet(context.Background(), set(t, mv("A", "B", 1), mv("B", "C", 2)), analysis.Options{
		Seed:    "A",
		Degrees: true,
		Windows: true,
		Compare: true,
	})
	if err != nil {
		t.Fatalf("RunSet: %v", err)
	}
	if res.RunID == "" {
		t.Error("run id not set")
	}
	if res.Movements != 2 || res.Premises != 3 {
		t.Errorf("want 2 movements over 3 premises, got %d over %d", res.Movements, res.Premises)
	}
	if res.Span != (movement.TimeSpan{Min: 1, Max: 2}) {
		t.Errorf("span: got %+v", res.Span)
	}
	if got := res.StaticDistribution.Sizes(); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("static distribution: want [3 2 1], got %v", got)
	}
	if got := res.TemporalDistribution.Sizes(); !reflect.DeepEqual(got, []int{3, 2, 1}) {
		t.Errorf("temporal distribution: want [3 2 1], got %v", got)
	}
	if res.StaticDistribution.Summary == nil || res.StaticDistribution.Summary.Max != 3 {
		t.Errorf("static summary: got %+v", res.StaticDistribution.Summary)
	}

	want := []paths.Entry{
		{Node: "A", Switches: 0, Arrival: 0},
		{Node: "B", Switches: 1, Arrival: 2},
		{Node: "C", Switches: 2, Arrival: 3},
	}
	if res.Switches == nil || !reflect.DeepEqual(res.Switches.Entries, want) {
		t.Fatalf("switch entries: want %v, got %+v", want, res.Switches)
	}
	if res.Switches.StaticHops["C"] != 2 {
		t.Errorf("static hops to C: want 2, got %d", res.Switches.StaticHops["C"])
	}
	if len(res.OutDegrees) == 0 || len(res.InDegrees) == 0 {
		t.Error("degree distributions missing")
	}
	if len(res.Comparison) != 3 {
		t.Errorf("comparison: want 3 cones, got %d", len(res.Comparison))
	}
}

func TestRunSet_TemporalBlocking(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	res, err := r.RunSet(context.Background(), set(t, mv("A", "B", 5), mv("B", "C", 2)), analysis.Options{Seed: "A"})
	if err != nil {
		t.Fatalf("RunSet: %v", err)
	}
	if got := res.StaticDistribution.Entries[0]; got != (analysis.SeedSize{Seed: "A", Size: 3}) {
		t.Errorf("static A: got %+v", got)
	}
	if _, ok := lookup(res.Switches.Entries, "C"); ok {
		t.Error("C must not be reachable from A in the temporal model")
	}
	if _, ok := lookup(res.Switches.Entries, "B"); !ok {
		t.Error("B must be reachable from A")
	}
}

func lookup(es []paths.Entry, n movement.NodeID) (paths.Entry, bool) {
	for _, e := range es {
		if e.Node == n {
			return e, true
		}
	}
	return paths.Entry{}, false
}

func TestRunSet_Filter(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	res, err := r.RunSet(context.Background(),
		set(t, mv("A", "B", 1), mv("B", "C", 2), mv("C", "D", 9)),
		analysis.Options{Filter: "day < 5"})
	if err != nil {
		t.Fatalf("RunSet: %v", err)
	}
	if res.Filtered != 1 || res.Movements != 2 {
		t.Errorf("want 1 filtered and 2 kept, got %d and %d", res.Filtered, res.Movements)
	}
	if res.Switches != nil {
		t.Error("no seed configured, switch report must be nil")
	}
}

func TestRunSet_FilterRemovesEverything(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	_, err := r.RunSet(context.Background(), set(t, mv("A", "B", 1)), analysis.Options{Filter: "day > 100"})
	if !errors.Is(err, graph.ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
}

func TestRunSet_UnknownSeed(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	_, err := r.RunSet(context.Background(), set(t, mv("A", "B", 1)), analysis.Options{Seed: "Z"})
	if !errors.Is(err, graph.ErrUnknownSeed) {
		t.Fatalf("want ErrUnknownSeed, got %v", err)
	}
}

func TestRunSet_LateMovementsSeededAtZero(t *testing.T) {
	r := analysis.NewRunner(nil, nil)
	res, err := r.RunSet(context.Background(), set(t, mv("A", "B", 10)), analysis.Options{})
	if err != nil {
		t.Fatalf("RunSet: %v", err)
	}
	// Waiting edges start at time 0 whatever the first day, so both
	// premises are still seeded at time 0.
	if got := res.TemporalDistribution.Sizes(); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Errorf("temporal distribution: want [2 1], got %v", got)
	}
}

func TestRunSet_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := metrics.NewRegistry()
	r := analysis.NewRunner(nil, m)
	_, err := r.RunSet(ctx, set(t, mv("A", "B", 1)), analysis.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRun_FromConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	cfg := &config.AnalysisConfig{
		Version: "v1",
		Input: config.InputConf{
			Movements: write("m.tsv", "src\tdst\tday\nA\tB\t1\nB\tB\t1\nB\tC\t2\n"),
			Locations: write("l.tsv", "id\tx\ty\nA\t0\t0\nB\t1\t0\nC\t2\t0\n"),
			Comma:     "\t",
			Header:    true,
		},
		Analysis: config.AnalysisConf{Seed: "A"},
	}
	res, err := analysis.NewRunner(nil, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Load.SelfMovements != 1 || res.Movements != 2 {
		t.Errorf("load: got %+v, movements %d", res.Load, res.Movements)
	}
	if loc, ok := res.Location("C"); !ok || loc.X != 2 {
		t.Errorf("location C: got %+v %v", loc, ok)
	}
}

func TestRun_MissingFile(t *testing.T) {
	cfg := &config.AnalysisConfig{Version: "v1", Input: config.InputConf{Movements: filepath.Join(t.TempDir(), "none.csv")}}
	_, err := analysis.NewRunner(nil, nil).Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for a missing movements file")
	}
}
