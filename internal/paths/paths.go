package paths

import (
	"sort"

	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// Entry is one reached premise.
type Entry struct {
	Node     movement.NodeID `json:"node"`
	Switches int             `json:"switches"`
	Arrival  int             `json:"arrival"`
}

// Result holds the switch counts of every premise reachable from one seed.
type Result struct {
	Seed     movement.NodeID
	SeedTime int

	switches map[movement.NodeID]int
	arrival  map[movement.NodeID]int
	pred     map[graph.TimeNode]graph.TimeNode
}

// SwitchCounts returns the switch-count mapping of g from (seed, 0).
func SwitchCounts(g *graph.TemporalGraph, seed movement.NodeID) (map[movement.NodeID]int, error) {
	r, err := Analyze(g, seed)
	if err != nil {
		return nil, err
	}
	return r.SwitchCounts(), nil
}

// Analyze runs AnalyzeAt from time 0.
func Analyze(g *graph.TemporalGraph, seed movement.NodeID) (*Result, error) {
	return AnalyzeAt(g, seed, 0)
}

// AnalyzeAt walks g breadth-first from (seed, at). Every edge advances time by
// one, so BFS layer k is exactly time at+k and the first layer a premise
// appears in is its earliest arrival.
//
// Within a layer each vertex keeps the fewest premise switches over all paths
// reaching it, with ties going to the first predecessor in (time, premise)
// order. A premise is recorded once, at its earliest arrival, with the switch
// count of that vertex. Waiting edges cost nothing; movement edges cost one.
func AnalyzeAt(g *graph.TemporalGraph, seed movement.NodeID, at int) (*Result, error) {
	start := graph.TimeNode{Node: seed, Time: at}
	if !g.HasVertex(start) {
		return nil, graph.UnknownSeed(start)
	}

	r := &Result{
		Seed:     seed,
		SeedTime: at,
		switches: make(map[movement.NodeID]int),
		arrival:  make(map[movement.NodeID]int),
		pred:     make(map[graph.TimeNode]graph.TimeNode),
	}
	cost := map[graph.TimeNode]int{start: 0}
	layer := []graph.TimeNode{start}

	for len(layer) > 0 {
		sort.Slice(layer, func(i, j int) bool { return layer[i].Node < layer[j].Node })
		var next []graph.TimeNode
		for _, v := range layer {
			if _, ok := r.arrival[v.Node]; !ok {
				r.arrival[v.Node] = v.Time
				r.switches[v.Node] = cost[v]
			}
			for _, w := range g.Successors(v) {
				c := cost[v]
				if w.Node != v.Node {
					c++
				}
				prev, seen := cost[w]
				if !seen {
					next = append(next, w)
				}
				if !seen || c < prev {
					cost[w] = c
					r.pred[w] = v
				}
			}
		}
		layer = next
	}
	return r, nil
}

// SwitchCounts returns a copy of the premise → switch count mapping. The seed
// maps to 0; unreached premises are absent.
func (r *Result) SwitchCounts() map[movement.NodeID]int {
	out := make(map[movement.NodeID]int, len(r.switches))
	for k, v := range r.switches {
		out[k] = v
	}
	return out
}

// Switches returns the switch count of f.
func (r *Result) Switches(f movement.NodeID) (int, bool) {
	s, ok := r.switches[f]
	return s, ok
}

// Arrival returns the earliest time f is reached.
func (r *Result) Arrival(f movement.NodeID) (int, bool) {
	t, ok := r.arrival[f]
	return t, ok
}

// Path returns the recorded path from the seed vertex to the earliest arrival
// at f, or nil when f is not reached.
func (r *Result) Path(f movement.NodeID) []graph.TimeNode {
	t, ok := r.arrival[f]
	if !ok {
		return nil
	}
	v := graph.TimeNode{Node: f, Time: t}
	path := []graph.TimeNode{v}
	for {
		p, ok := r.pred[v]
		if !ok {
			break
		}
		path = append(path, p)
		v = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Entries returns every reached premise sorted by switch count, then premise.
func (r *Result) Entries() []Entry {
	out := make([]Entry, 0, len(r.switches))
	for n, s := range r.switches {
		out = append(out, Entry{Node: n, Switches: s, Arrival: r.arrival[n]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Switches != out[j].Switches {
			return out[i].Switches < out[j].Switches
		}
		return out[i].Node < out[j].Node
	})
	return out
}

// Len returns the number of reached premises, the seed included.
func (r *Result) Len() int { return len(r.switches) }
