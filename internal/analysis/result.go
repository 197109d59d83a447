package analysis

import (
	"time"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
	"github.com/gyaneshwarpardhi/tempreach/internal/paths"
	"github.com/gyaneshwarpardhi/tempreach/internal/reach"
	"github.com/gyaneshwarpardhi/tempreach/internal/stats"
)

// Model names used in results, reports and metric labels.
const (
	ModelStatic   = "static"
	ModelTemporal = "temporal"
)

// Result is the outcome of one analysis run.
type Result struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMs int64              `json:"duration_ms"`
	Load       movement.LoadStats `json:"load"`
	Filtered   int                `json:"filtered"`
	Movements  int                `json:"movements"`
	Premises   int                `json:"premises"`
	Span       movement.TimeSpan  `json:"span"`

	Static   GraphStats `json:"static_graph"`
	Temporal GraphStats `json:"temporal_graph"`

	StaticDistribution   Distribution `json:"static_distribution"`
	TemporalDistribution Distribution `json:"temporal_distribution"`

	Switches   *SwitchReport      `json:"switches,omitempty"`
	InDegrees  []stats.Bucket     `json:"in_degrees,omitempty"`
	OutDegrees []stats.Bucket     `json:"out_degrees,omitempty"`
	Windows    []stats.WindowStat `json:"windows,omitempty"`
	Comparison []reach.Cone       `json:"comparison,omitempty"`

	Locations map[movement.NodeID]movement.Location `json:"-"`
}

// GraphStats is the size of one built graph.
type GraphStats struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

// SeedSize is the reachable-set size of one seed.
type SeedSize struct {
	Seed movement.NodeID `json:"seed"`
	Size int             `json:"size"`
}

// Distribution is the reachable-set size of every seed of one model.
// Summary is nil when no seed exists.
type Distribution struct {
	Model   string         `json:"model"`
	Entries []SeedSize     `json:"entries"`
	Summary *stats.Summary `json:"summary,omitempty"`
}

// Sizes returns the sizes in entry order.
func (d Distribution) Sizes() []int {
	out := make([]int, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.Size
	}
	return out
}

// SwitchReport holds the switch counts from the configured seed.
type SwitchReport struct {
	Seed       movement.NodeID         `json:"seed"`
	SeedTime   int                     `json:"seed_time"`
	Entries    []paths.Entry           `json:"entries"`
	Summary    *stats.Summary          `json:"summary,omitempty"`
	StaticHops map[movement.NodeID]int `json:"static_hops"`
}

// Location returns the coordinates of n when locations were loaded.
func (r *Result) Location(n movement.NodeID) (movement.Location, bool) {
	loc, ok := r.Locations[n]
	return loc, ok
}
