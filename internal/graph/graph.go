package graph

import (
	"sort"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// TemporalGraph is the time-expanded graph of a movement set. It is
// immutable once built and acyclic: every edge advances time by one day.
type TemporalGraph struct {
	span     movement.TimeSpan
	nodes    []movement.NodeID // sorted distinct premises
	vertices map[TimeNode]struct{}
	succ     map[TimeNode][]TimeNode
	edgeSet  map[TemporalEdge]struct{}
}

// Span returns the min and max movement day the graph was built from.
func (g *TemporalGraph) Span() movement.TimeSpan { return g.span }

// FirstTime is the earliest vertex time: minT-1, or 0 when movements start
// later than day 1.
func (g *TemporalGraph) FirstTime() int {
	return min(g.span.Min-1, 0)
}

// LastTime is the latest vertex time, maxT+1.
func (g *TemporalGraph) LastTime() int {
	return g.span.Max + 1
}

// Nodes returns the distinct premises, sorted.
func (g *TemporalGraph) Nodes() []movement.NodeID {
	out := make([]movement.NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasVertex reports whether v is in the graph.
func (g *TemporalGraph) HasVertex(v TimeNode) bool {
	_, ok := g.vertices[v]
	return ok
}

// Successors returns the direct successors of v. The slice must not be modified.
func (g *TemporalGraph) Successors(v TimeNode) []TimeNode {
	return g.succ[v]
}

// HasEdge reports whether from→to is an edge.
func (g *TemporalGraph) HasEdge(from, to TimeNode) bool {
	_, ok := g.edgeSet[TemporalEdge{From: from, To: to}]
	return ok
}

// VertexCount returns the number of time nodes.
func (g *TemporalGraph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct edges of both kinds.
func (g *TemporalGraph) EdgeCount() int { return len(g.edgeSet) }

// Vertices returns every time node ordered by time, then premise.
func (g *TemporalGraph) Vertices() []TimeNode {
	out := make([]TimeNode, 0, len(g.vertices))
	for v := range g.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return lessTimeNode(out[i], out[j]) })
	return out
}

// Edges returns every edge in a canonical order.
func (g *TemporalGraph) Edges() []TemporalEdge {
	out := make([]TemporalEdge, 0, len(g.edgeSet))
	for e := range g.edgeSet {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return lessTemporalEdge(out[i], out[j]) })
	return out
}

// SeedsAt returns the premises that have a vertex at time t, sorted.
func (g *TemporalGraph) SeedsAt(t int) []movement.NodeID {
	var out []movement.NodeID
	for _, n := range g.nodes {
		if g.HasVertex(TimeNode{Node: n, Time: t}) {
			out = append(out, n)
		}
	}
	return out
}

func (g *TemporalGraph) addEdge(from, to TimeNode) {
	g.vertices[from] = struct{}{}
	g.vertices[to] = struct{}{}
	e := TemporalEdge{From: from, To: to}
	if _, ok := g.edgeSet[e]; ok {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.succ[from] = append(g.succ[from], to)
}

// StaticGraph is the time-aggregated directed graph: one edge per distinct
// (source, destination) pair, days and multiplicity discarded.
type StaticGraph struct {
	nodes    []movement.NodeID
	vertices map[movement.NodeID]struct{}
	succ     map[movement.NodeID][]movement.NodeID
	inDegree map[movement.NodeID]int
	edges    map[StaticEdge]struct{}
}

// Nodes returns every premise, sorted.
func (g *StaticGraph) Nodes() []movement.NodeID {
	out := make([]movement.NodeID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasVertex reports whether n is in the graph.
func (g *StaticGraph) HasVertex(n movement.NodeID) bool {
	_, ok := g.vertices[n]
	return ok
}

// Successors returns the direct successors of n. The slice must not be modified.
func (g *StaticGraph) Successors(n movement.NodeID) []movement.NodeID {
	return g.succ[n]
}

// HasEdge reports whether from→to is an edge.
func (g *StaticGraph) HasEdge(from, to movement.NodeID) bool {
	_, ok := g.edges[StaticEdge{From: from, To: to}]
	return ok
}

// OutDegree returns the number of distinct destinations of n.
func (g *StaticGraph) OutDegree(n movement.NodeID) int { return len(g.succ[n]) }

// InDegree returns the number of distinct sources sending to n.
func (g *StaticGraph) InDegree(n movement.NodeID) int { return g.inDegree[n] }

// VertexCount returns the number of premises.
func (g *StaticGraph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct edges.
func (g *StaticGraph) EdgeCount() int { return len(g.edges) }

// Edges returns every edge in a canonical order.
func (g *StaticGraph) Edges() []StaticEdge {
	out := make([]StaticEdge, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return lessStaticEdge(out[i], out[j]) })
	return out
}

func (g *StaticGraph) addEdge(from, to movement.NodeID) {
	g.vertices[from] = struct{}{}
	g.vertices[to] = struct{}{}
	e := StaticEdge{From: from, To: to}
	if _, ok := g.edges[e]; ok {
		return
	}
	g.edges[e] = struct{}{}
	g.succ[from] = append(g.succ[from], to)
	g.inDegree[to]++
}
