package graph

import (
	"fmt"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// Adjacency is the read-only view traversals need. Both StaticGraph and
// TemporalGraph implement it over their own vertex type.
type Adjacency[V comparable] interface {
	HasVertex(v V) bool
	Successors(v V) []V
}

// TimeNode is a premise as of a given day. It is deliberately a distinct
// type from movement.NodeID.
type TimeNode struct {
	Node movement.NodeID `json:"node"`
	Time int             `json:"time"`
}

func (n TimeNode) String() string {
	return fmt.Sprintf("(%s,%d)", n.Node, n.Time)
}

// EdgeKind discriminates the two kinds of temporal edges.
type EdgeKind string

const (
	EdgeMovement EdgeKind = "movement"
	EdgeWaiting  EdgeKind = "waiting"
)

// TemporalEdge is a directed edge of the time-expanded graph.
type TemporalEdge struct {
	From TimeNode `json:"from"`
	To   TimeNode `json:"to"`
}

// Kind reports whether the edge moves between premises or waits in place.
func (e TemporalEdge) Kind() EdgeKind {
	if e.From.Node == e.To.Node {
		return EdgeWaiting
	}
	return EdgeMovement
}

// StaticEdge is a directed edge of the time-aggregated graph.
type StaticEdge struct {
	From movement.NodeID `json:"from"`
	To   movement.NodeID `json:"to"`
}

func lessTimeNode(a, b TimeNode) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.Node < b.Node
}

func lessTemporalEdge(a, b TemporalEdge) bool {
	if a.From != b.From {
		return lessTimeNode(a.From, b.From)
	}
	return lessTimeNode(a.To, b.To)
}

func lessStaticEdge(a, b StaticEdge) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	return a.To < b.To
}
