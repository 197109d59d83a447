package graph_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"

	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement/movementtest"
)

func tn(n string, t int) graph.TimeNode {
	return graph.TimeNode{Node: movement.NodeID(n), Time: t}
}

func chain() []movement.Movement {
	return []movement.Movement{
		{Source: "A", Destination: "B", Day: 1},
		{Source: "B", Destination: "C", Day: 2},
	}
}

func TestBuildStatic_Chain(t *testing.T) {
	g, err := graph.BuildStatic(chain())
	if err != nil {
		t.Fatalf("BuildStatic: %v", err)
	}
	want := []graph.StaticEdge{{From: "A", To: "B"}, {From: "B", To: "C"}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("edges: want %v, got %v", want, got)
	}
	if g.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", g.VertexCount())
	}
	if g.OutDegree("A") != 1 || g.InDegree("A") != 0 || g.InDegree("C") != 1 {
		t.Errorf("unexpected degrees")
	}
}

func TestBuildStatic_CollapsesDuplicates(t *testing.T) {
	g, err := graph.BuildStatic([]movement.Movement{
		{Source: "A", Destination: "B", Day: 1},
		{Source: "A", Destination: "B", Day: 9},
		{Source: "B", Destination: "A", Day: 4},
	})
	if err != nil {
		t.Fatalf("BuildStatic: %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
	if g.OutDegree("A") != 1 || g.InDegree("B") != 1 {
		t.Errorf("duplicate edge counted twice in degrees")
	}
}

func TestBuildTemporal_Chain(t *testing.T) {
	g, err := graph.BuildTemporal(chain())
	if err != nil {
		t.Fatalf("BuildTemporal: %v", err)
	}
	if span := g.Span(); span.Min != 1 || span.Max != 2 {
		t.Errorf("unexpected span %+v", span)
	}
	for _, e := range [][2]graph.TimeNode{
		{tn("A", 1), tn("B", 2)},
		{tn("B", 2), tn("C", 3)},
	} {
		if !g.HasEdge(e[0], e[1]) {
			t.Errorf("missing movement edge %v→%v", e[0], e[1])
		}
	}
	for _, n := range []string{"A", "B", "C"} {
		for i := 0; i <= 2; i++ {
			if !g.HasEdge(tn(n, i), tn(n, i+1)) {
				t.Errorf("missing waiting edge %v→%v", tn(n, i), tn(n, i+1))
			}
		}
		if g.HasEdge(tn(n, 3), tn(n, 4)) || g.HasEdge(tn(n, -1), tn(n, 0)) {
			t.Errorf("waiting edge outside [minT-1, maxT] for %s", n)
		}
	}
	// 2 movement edges + 3 premises × 3 waiting steps.
	if g.EdgeCount() != 11 {
		t.Errorf("expected 11 edges, got %d", g.EdgeCount())
	}
	if seeds := g.SeedsAt(0); len(seeds) != 3 {
		t.Errorf("expected 3 seeds at time 0, got %v", seeds)
	}
}

func TestBuildTemporal_EdgeKinds(t *testing.T) {
	g, err := graph.BuildTemporal(chain())
	if err != nil {
		t.Fatalf("BuildTemporal: %v", err)
	}
	moves := 0
	for _, e := range g.Edges() {
		if e.Kind() == graph.EdgeMovement {
			moves++
		}
	}
	if moves != 2 {
		t.Errorf("expected 2 movement edges, got %d", moves)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	if _, err := graph.BuildTemporal(nil); !errors.Is(err, graph.ErrEmptyInput) {
		t.Errorf("BuildTemporal: expected ErrEmptyInput, got %v", err)
	}
	if _, err := graph.BuildStatic([]movement.Movement{}); !errors.Is(err, graph.ErrEmptyInput) {
		t.Errorf("BuildStatic: expected ErrEmptyInput, got %v", err)
	}
}

func TestBuild_MalformedRecord(t *testing.T) {
	bad := []movement.Movement{{Source: "A", Destination: "A", Day: 1}}
	if _, err := graph.BuildTemporal(bad); !errors.Is(err, movement.ErrMalformedRecord) {
		t.Errorf("BuildTemporal: expected ErrMalformedRecord, got %v", err)
	}
	if _, err := graph.BuildStatic(bad); !errors.Is(err, movement.ErrMalformedRecord) {
		t.Errorf("BuildStatic: expected ErrMalformedRecord, got %v", err)
	}
}

func TestSeedError(t *testing.T) {
	err := graph.UnknownSeed(tn("Z", 0))
	if !errors.Is(err, graph.ErrUnknownSeed) {
		t.Fatalf("expected ErrUnknownSeed, got %v", err)
	}
	if err.Error() != "unknown seed: (Z,0)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("waiting edges cover [minT-1, maxT] for every premise", prop.ForAll(
		func(ms []movement.Movement) bool {
			g, err := graph.BuildTemporal(ms)
			if err != nil {
				return false
			}
			span := g.Span()
			for _, n := range g.Nodes() {
				for i := span.Min - 1; i <= span.Max; i++ {
					if !g.HasEdge(graph.TimeNode{Node: n, Time: i}, graph.TimeNode{Node: n, Time: i + 1}) {
						return false
					}
				}
			}
			return true
		},
		movementtest.Movements(30, 12),
	))

	properties.Property("every temporal edge advances time by one", prop.ForAll(
		func(ms []movement.Movement) bool {
			g, err := graph.BuildTemporal(ms)
			if err != nil {
				return false
			}
			for _, e := range g.Edges() {
				if e.To.Time != e.From.Time+1 {
					return false
				}
			}
			return true
		},
		movementtest.Movements(30, 12),
	))

	properties.Property("rebuilding yields identical graphs", prop.ForAll(
		func(ms []movement.Movement) bool {
			t1, err1 := graph.BuildTemporal(ms)
			t2, err2 := graph.BuildTemporal(ms)
			s1, err3 := graph.BuildStatic(ms)
			s2, err4 := graph.BuildStatic(ms)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				return false
			}
			return reflect.DeepEqual(t1.Vertices(), t2.Vertices()) &&
				reflect.DeepEqual(t1.Edges(), t2.Edges()) &&
				reflect.DeepEqual(s1.Nodes(), s2.Nodes()) &&
				reflect.DeepEqual(s1.Edges(), s2.Edges())
		},
		movementtest.Movements(30, 12),
	))

	properties.Property("static edges are the projection of movement edges", prop.ForAll(
		func(ms []movement.Movement) bool {
			tg, err := graph.BuildTemporal(ms)
			if err != nil {
				return false
			}
			sg, err := graph.BuildStatic(ms)
			if err != nil {
				return false
			}
			projected := make(map[graph.StaticEdge]struct{})
			for _, e := range tg.Edges() {
				if e.Kind() == graph.EdgeMovement {
					projected[graph.StaticEdge{From: e.From.Node, To: e.To.Node}] = struct{}{}
				}
			}
			return len(projected) == sg.EdgeCount()
		},
		movementtest.Movements(30, 12),
	))

	properties.TestingRun(t)
}
