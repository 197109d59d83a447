package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/tempreach/internal/config"
	"github.com/gyaneshwarpardhi/tempreach/internal/filter"
	"github.com/gyaneshwarpardhi/tempreach/internal/graph"
	"github.com/gyaneshwarpardhi/tempreach/internal/metrics"
	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
	"github.com/gyaneshwarpardhi/tempreach/internal/paths"
	"github.com/gyaneshwarpardhi/tempreach/internal/reach"
	"github.com/gyaneshwarpardhi/tempreach/internal/stats"
)

// Options selects what a run computes beyond the two distributions.
type Options struct {
	Filter   string
	Seed     movement.NodeID // empty = no switch counts
	SeedTime int
	Degrees  bool
	Windows  bool
	Compare  bool
}

// OptionsFrom maps the analysis section of a config onto Options.
func OptionsFrom(cfg *config.AnalysisConfig) Options {
	return Options{
		Filter:   cfg.Filter,
		Seed:     movement.NodeID(cfg.Analysis.Seed),
		SeedTime: cfg.Analysis.SeedTime,
		Degrees:  cfg.Analysis.Degrees,
		Windows:  cfg.Analysis.Windows,
		Compare:  cfg.Analysis.Compare,
	}
}

// Runner executes analysis runs. A Runner is safe for sequential reuse;
// each run builds its graphs from scratch.
type Runner struct {
	logger  *slog.Logger
	metrics *metrics.Registry
}

// NewRunner creates a Runner. A nil logger uses slog.Default and nil
// metrics uses a private registry.
func NewRunner(logger *slog.Logger, m *metrics.Registry) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Runner{logger: logger, metrics: m}
}

// Run reads the configured input files and analyses them.
func (r *Runner) Run(ctx context.Context, cfg *config.AnalysisConfig) (*Result, error) {
	opts := readOptions(cfg.Input)

	var (
		set  *movement.Set
		load movement.LoadStats
		locs map[movement.NodeID]movement.Location
	)
	log := r.logger.With("config_version", cfg.Version)
	err := r.stage(ctx, log, "load", func() error {
		var err error
		set, load, err = movement.ReadFile(cfg.Input.Movements, opts)
		if err != nil {
			return err
		}
		if cfg.Input.Locations != "" {
			if locs, err = movement.ReadLocationsFile(cfg.Input.Locations, opts); err != nil {
				return err
			}
		}
		log.Info("movements loaded", "path", cfg.Input.Movements,
			"records", load.Records, "self_movements", load.SelfMovements, "locations", len(locs))
		return nil
	})
	if err != nil {
		r.metrics.RecordRun(err)
		return nil, err
	}
	r.metrics.MovementsDropped.WithLabelValues("self_movement").Set(float64(load.SelfMovements))

	res, err := r.analyse(ctx, log, set, OptionsFrom(cfg))
	if err != nil {
		return nil, err
	}
	res.Load = load
	res.Locations = locs
	return res, nil
}

// RunSet analyses an in-memory movement set.
func (r *Runner) RunSet(ctx context.Context, set *movement.Set, opts Options) (*Result, error) {
	return r.analyse(ctx, r.logger, set, opts)
}

func (r *Runner) analyse(ctx context.Context, log *slog.Logger, set *movement.Set, opts Options) (res *Result, err error) {
	res = &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Load:      movement.LoadStats{Records: set.Len()},
	}
	log = log.With("run_id", res.RunID)
	defer func() {
		r.metrics.RecordRun(err)
		if err != nil {
			log.Error("analysis failed", "err", err)
			res = nil
			return
		}
		res.DurationMs = time.Since(res.StartedAt).Milliseconds()
		log.Info("analysis finished", "duration_ms", res.DurationMs)
	}()

	if opts.Filter != "" {
		err = r.stage(ctx, log, "filter", func() error {
			keep, err := filter.Compile(opts.Filter)
			if err != nil {
				return err
			}
			before := set.Len()
			set = set.Filter(keep)
			res.Filtered = before - set.Len()
			r.metrics.MovementsDropped.WithLabelValues("filter").Set(float64(res.Filtered))
			log.Info("movements filtered", "expr", opts.Filter, "kept", set.Len(), "dropped", res.Filtered)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	res.Movements = set.Len()
	res.Premises = len(set.Nodes())
	res.Span, _ = set.Span()
	r.metrics.MovementsLoaded.Set(float64(res.Movements))

	var (
		sg *graph.StaticGraph
		tg *graph.TemporalGraph
	)
	err = r.stage(ctx, log, "build", func() error {
		ms := set.Movements()
		var err error
		if sg, err = graph.BuildStatic(ms); err != nil {
			return err
		}
		if tg, err = graph.BuildTemporal(ms); err != nil {
			return err
		}
		res.Static = GraphStats{Vertices: sg.VertexCount(), Edges: sg.EdgeCount()}
		res.Temporal = GraphStats{Vertices: tg.VertexCount(), Edges: tg.EdgeCount()}
		r.recordGraph(ModelStatic, res.Static)
		r.recordGraph(ModelTemporal, res.Temporal)
		log.Info("graphs built",
			"premises", res.Premises, "first_day", res.Span.Min, "last_day", res.Span.Max,
			"static_edges", res.Static.Edges, "temporal_vertices", res.Temporal.Vertices,
			"temporal_edges", res.Temporal.Edges)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, log, "distribution", func() error {
		res.StaticDistribution = distribution(ModelStatic, sg.Nodes(), reach.StaticDistribution(sg))
		res.TemporalDistribution = distribution(ModelTemporal, tg.SeedsAt(0), reach.TemporalDistribution(tg))
		for _, d := range []Distribution{res.StaticDistribution, res.TemporalDistribution} {
			if d.Summary == nil {
				log.Warn("empty reachability distribution", "model", d.Model)
				continue
			}
			r.metrics.ReachMean.WithLabelValues(d.Model).Set(d.Summary.Mean)
			r.metrics.ReachMax.WithLabelValues(d.Model).Set(float64(d.Summary.Max))
			log.Info("reachability distribution", "model", d.Model,
				"seeds", d.Summary.Count, "mean", d.Summary.Mean, "max", d.Summary.Max)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Seed != "" {
		err = r.stage(ctx, log, "switches", func() error {
			sr, err := switchReport(sg, tg, opts.Seed, opts.SeedTime)
			if err != nil {
				return err
			}
			res.Switches = sr
			r.metrics.SeedReached.Set(float64(len(sr.Entries)))
			log.Info("switch counts computed", "seed", opts.Seed, "seed_time", opts.SeedTime, "reached", len(sr.Entries))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Degrees {
		err = r.stage(ctx, log, "degrees", func() error {
			res.InDegrees, res.OutDegrees = stats.DegreeDistributions(sg)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Windows {
		err = r.stage(ctx, log, "windows", func() error {
			res.Windows = stats.OutDegreeOverTime(set)
			if res.Windows == nil {
				// Single-day sets have no window sizes.
				res.Windows = []stats.WindowStat{}
			}
			log.Debug("out-degree windows computed", "sizes", len(res.Windows))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Compare {
		err = r.stage(ctx, log, "compare", func() error {
			res.Comparison = reach.Compare(sg, tg, 0)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// stage runs fn unless ctx is already done, timing it and wrapping any
// error with the stage name.
func (r *Runner) stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.metrics.ObserveStage(name, d)
	log.Debug("stage done", "stage", name, "duration", d)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (r *Runner) recordGraph(model string, gs GraphStats) {
	r.metrics.GraphVertices.WithLabelValues(model).Set(float64(gs.Vertices))
	r.metrics.GraphEdges.WithLabelValues(model).Set(float64(gs.Edges))
}

func distribution(model string, seeds []movement.NodeID, sizes []int) Distribution {
	d := Distribution{Model: model, Entries: make([]SeedSize, len(seeds))}
	for i, s := range seeds {
		d.Entries[i] = SeedSize{Seed: s, Size: sizes[i]}
	}
	if sum, err := stats.Summarize(sizes); err == nil {
		d.Summary = &sum
	}
	return d
}

func switchReport(sg *graph.StaticGraph, tg *graph.TemporalGraph, seed movement.NodeID, at int) (*SwitchReport, error) {
	pr, err := paths.AnalyzeAt(tg, seed, at)
	if err != nil {
		return nil, err
	}
	hops, err := reach.StaticDistances(sg, seed)
	if err != nil {
		return nil, err
	}
	sr := &SwitchReport{
		Seed:       seed,
		SeedTime:   at,
		Entries:    pr.Entries(),
		StaticHops: hops,
	}
	counts := make([]int, len(sr.Entries))
	for i, e := range sr.Entries {
		counts[i] = e.Switches
	}
	sum, err := stats.Summarize(counts)
	if err != nil && !errors.Is(err, stats.ErrEmptyDistribution) {
		return nil, err
	}
	if err == nil {
		sr.Summary = &sum
	}
	return sr, nil
}

func readOptions(in config.InputConf) movement.ReadOptions {
	comma, _ := utf8.DecodeRuneInString(in.Comma)
	if comma == utf8.RuneError {
		comma = 0
	}
	return movement.ReadOptions{Comma: comma, Header: in.Header}
}
