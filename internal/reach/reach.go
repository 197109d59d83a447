package reach

import (
	"sort"

	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// Reachable returns every vertex reachable from seed by a directed path,
// seed included. Each vertex is visited once, so cycles in the static graph
// terminate.
func Reachable[V comparable](g graph.Adjacency[V], seed V) (map[V]struct{}, error) {
	if !g.HasVertex(seed) {
		return nil, graph.UnknownSeed(seed)
	}
	visited := map[V]struct{}{seed: {}}
	queue := []V{seed}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(current) {
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return visited, nil
}

// StaticCone returns the premises reachable from seed in the static graph,
// sorted.
func StaticCone(g *graph.StaticGraph, seed movement.NodeID) ([]movement.NodeID, error) {
	set, err := Reachable[movement.NodeID](g, seed)
	if err != nil {
		return nil, err
	}
	out := make([]movement.NodeID, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sortNodes(out)
	return out, nil
}

// TemporalCone returns the premises reachable from (seed, at) in the
// temporal graph, projected to premise identity and sorted.
func TemporalCone(g *graph.TemporalGraph, seed movement.NodeID, at int) ([]movement.NodeID, error) {
	set, err := Reachable[graph.TimeNode](g, graph.TimeNode{Node: seed, Time: at})
	if err != nil {
		return nil, err
	}
	premises := make(map[movement.NodeID]struct{})
	for v := range set {
		premises[v.Node] = struct{}{}
	}
	out := make([]movement.NodeID, 0, len(premises))
	for n := range premises {
		out = append(out, n)
	}
	sortNodes(out)
	return out, nil
}

// StaticDistribution returns the reachable-set size of every premise of the
// static graph, one entry per premise in sorted premise order.
func StaticDistribution(g *graph.StaticGraph) []int {
	nodes := g.Nodes()
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		set, _ := Reachable[movement.NodeID](g, n)
		out = append(out, len(set))
	}
	return out
}

// TemporalDistribution seeds an outbreak at time 0 at every premise that has
// a time-0 vertex and returns the number of distinct premises each reaches.
func TemporalDistribution(g *graph.TemporalGraph) []int {
	return TemporalDistributionAt(g, 0)
}

// TemporalDistributionAt is TemporalDistribution with outbreaks seeded at
// time at. The result is empty when no premise has a vertex at that time.
func TemporalDistributionAt(g *graph.TemporalGraph, at int) []int {
	seeds := g.SeedsAt(at)
	out := make([]int, 0, len(seeds))
	for _, n := range seeds {
		cone, _ := TemporalCone(g, n, at)
		out = append(out, len(cone))
	}
	return out
}

// StaticDistances returns the BFS hop distance from seed to every premise it
// reaches in the static graph. The seed is at distance 0.
func StaticDistances(g *graph.StaticGraph, seed movement.NodeID) (map[movement.NodeID]int, error) {
	if !g.HasVertex(seed) {
		return nil, graph.UnknownSeed(seed)
	}
	dist := map[movement.NodeID]int{seed: 0}
	queue := []movement.NodeID{seed}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Successors(current) {
			if _, ok := dist[next]; ok {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist, nil
}

// Cone pairs the static and temporal cone sizes of one seed.
type Cone struct {
	Seed     movement.NodeID `json:"seed"`
	Static   int             `json:"static"`
	Temporal int             `json:"temporal"`
}

// Compare returns a Cone for every premise seeded at time at in the temporal
// graph that is also a static vertex, in sorted premise order.
func Compare(sg *graph.StaticGraph, tg *graph.TemporalGraph, at int) []Cone {
	var out []Cone
	for _, n := range tg.SeedsAt(at) {
		if !sg.HasVertex(n) {
			continue
		}
		s, _ := Reachable[movement.NodeID](sg, n)
		tc, _ := TemporalCone(tg, n, at)
		out = append(out, Cone{Seed: n, Static: len(s), Temporal: len(tc)})
	}
	return out
}

func sortNodes(ns []movement.NodeID) {
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
}
