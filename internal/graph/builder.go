package graph

import (
	"fmt"
	"sort"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// BuildTemporal constructs the time-expanded graph of ms.
//
// Each movement (u,v,t) becomes the edge (u,t)→(v,t+1). Every premise seen in
// any movement then gets a waiting edge (g,i)→(g,i+1) for each i in
// [min(minT-1, 0), maxT], so staying put is always possible and every premise
// has a vertex at time 0.
func BuildTemporal(ms []movement.Movement) (*TemporalGraph, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("temporal graph: %w", ErrEmptyInput)
	}
	g := &TemporalGraph{
		vertices: make(map[TimeNode]struct{}),
		succ:     make(map[TimeNode][]TimeNode),
		edgeSet:  make(map[TemporalEdge]struct{}),
	}
	seen := make(map[movement.NodeID]struct{})
	for i, m := range ms {
		if err := movement.Validate(m); err != nil {
			return nil, fmt.Errorf("temporal graph: movement %d: %w", i, err)
		}
		seen[m.Source] = struct{}{}
		seen[m.Destination] = struct{}{}
		g.addEdge(TimeNode{Node: m.Source, Time: m.Day}, TimeNode{Node: m.Destination, Time: m.Day + 1})
	}
	g.span, _ = movement.SpanOf(ms)
	g.nodes = sortedNodes(seen)

	for i := g.FirstTime(); i <= g.span.Max; i++ {
		for _, n := range g.nodes {
			g.addEdge(TimeNode{Node: n, Time: i}, TimeNode{Node: n, Time: i + 1})
		}
	}
	return g, nil
}

// BuildStatic constructs the time-aggregated graph of ms. Repeated
// (source, destination) pairs collapse into one edge.
func BuildStatic(ms []movement.Movement) (*StaticGraph, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("static graph: %w", ErrEmptyInput)
	}
	g := &StaticGraph{
		vertices: make(map[movement.NodeID]struct{}),
		succ:     make(map[movement.NodeID][]movement.NodeID),
		inDegree: make(map[movement.NodeID]int),
		edges:    make(map[StaticEdge]struct{}),
	}
	for i, m := range ms {
		if err := movement.Validate(m); err != nil {
			return nil, fmt.Errorf("static graph: movement %d: %w", i, err)
		}
		g.addEdge(m.Source, m.Destination)
	}
	g.nodes = sortedNodes(g.vertices)
	return g, nil
}

func sortedNodes(set map[movement.NodeID]struct{}) []movement.NodeID {
	out := make([]movement.NodeID, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
