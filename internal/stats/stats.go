package stats

import (
	"errors"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// ErrEmptyDistribution is returned when summarising zero values.
var ErrEmptyDistribution = errors.New("empty distribution")

// Summary describes a distribution of integer sizes.
type Summary struct {
	Count  int     `json:"count"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize returns count, min, max, mean and median of xs.
func Summarize[T constraints.Integer](xs []T) (Summary, error) {
	if len(xs) == 0 {
		return Summary{}, ErrEmptyDistribution
	}
	sorted := make([]int, len(xs))
	for i, x := range xs {
		sorted[i] = int(x)
	}
	sort.Ints(sorted)

	s := Summary{Count: len(sorted), Min: sorted[0], Max: sorted[len(sorted)-1]}
	s.Mean = Mean(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		s.Median = float64(sorted[mid])
	} else {
		s.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return s, nil
}

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean[T constraints.Integer | constraints.Float](xs []T) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// Bucket is one value of a frequency table.
type Bucket struct {
	Value     int `json:"value"`
	Frequency int `json:"frequency"`
}

// Frequencies counts how often each value occurs, sorted by value.
func Frequencies[T constraints.Integer](xs []T) []Bucket {
	counts := make(map[int]int)
	for _, x := range xs {
		counts[int(x)]++
	}
	out := make([]Bucket, 0, len(counts))
	for v, f := range counts {
		out = append(out, Bucket{Value: v, Frequency: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// DegreeDistributions returns the in- and out-degree frequency tables of g.
func DegreeDistributions(g *graph.StaticGraph) (in, out []Bucket) {
	nodes := g.Nodes()
	ins := make([]int, len(nodes))
	outs := make([]int, len(nodes))
	for i, n := range nodes {
		ins[i] = g.InDegree(n)
		outs[i] = g.OutDegree(n)
	}
	return Frequencies(ins), Frequencies(outs)
}

// WindowStat aggregates out-degrees over every window of one size.
type WindowStat struct {
	Window  int     `json:"window"`
	MaxOut  int     `json:"max_out"`
	MeanOut float64 `json:"mean_out"`
}

// OutDegreeOverTime slides windows of every size s in [1, maxT-minT) across
// [minT, maxT-s) and, for each size, records the largest out-degree seen in any
// window and the mean over windows of the mean out-degree. Windows without
// movements are skipped.
func OutDegreeOverTime(set *movement.Set) []WindowStat {
	span, ok := set.Span()
	if !ok {
		return nil
	}
	byDay := set.ByDay()

	var out []WindowStat
	for size := 1; size < span.Max-span.Min; size++ {
		var means []float64
		maxOut := 0
		for h := span.Min; h < span.Max-size; h++ {
			var ms []movement.Movement
			for d := h; d < h+size; d++ {
				ms = append(ms, byDay[d]...)
			}
			g, err := graph.BuildStatic(ms)
			if err != nil {
				continue
			}
			means = append(means, float64(g.EdgeCount())/float64(g.VertexCount()))
			for _, n := range g.Nodes() {
				maxOut = max(maxOut, g.OutDegree(n))
			}
		}
		if len(means) == 0 {
			continue
		}
		out = append(out, WindowStat{Window: size, MaxOut: maxOut, MeanOut: Mean(means)})
	}
	return out
}
