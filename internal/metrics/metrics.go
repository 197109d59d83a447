package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the collectors of one process. Each Registry owns its own
// prometheus.Registry so runs in tests do not collide.
type Registry struct {
	RunsTotal        *prometheus.CounterVec
	MovementsLoaded  prometheus.Gauge
	MovementsDropped *prometheus.GaugeVec
	GraphVertices    *prometheus.GaugeVec
	GraphEdges       *prometheus.GaugeVec
	StageDuration    *prometheus.HistogramVec
	ReachMean        *prometheus.GaugeVec
	ReachMax         *prometheus.GaugeVec
	SeedReached      prometheus.Gauge
	LastRunTimestamp prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a Registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.RunsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "tempreach_runs_total",
		Help: "Total number of analysis runs, labelled by status.",
	}, []string{"status"})

	r.MovementsLoaded = f.NewGauge(prometheus.GaugeOpts{
		Name: "tempreach_movements_loaded",
		Help: "Movements kept by the last run after reading and filtering.",
	})

	r.MovementsDropped = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tempreach_movements_dropped",
		Help: "Movements discarded by the last run, labelled by reason.",
	}, []string{"reason"})

	r.GraphVertices = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tempreach_graph_vertices",
		Help: "Vertex count of the last built graph, labelled by model.",
	}, []string{"model"})

	r.GraphEdges = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tempreach_graph_edges",
		Help: "Edge count of the last built graph, labelled by model.",
	}, []string{"model"})

	r.StageDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tempreach_stage_duration_seconds",
		Help:    "Duration of each analysis stage in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"stage"})

	r.ReachMean = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tempreach_reachable_set_mean",
		Help: "Mean reachable-set size of the last run, labelled by model.",
	}, []string{"model"})

	r.ReachMax = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tempreach_reachable_set_max",
		Help: "Largest reachable-set size of the last run, labelled by model.",
	}, []string{"model"})

	r.SeedReached = f.NewGauge(prometheus.GaugeOpts{
		Name: "tempreach_seed_premises_reached",
		Help: "Premises reached from the configured seed in the last run.",
	})

	r.LastRunTimestamp = f.NewGauge(prometheus.GaugeOpts{
		Name: "tempreach_last_run_timestamp_seconds",
		Help: "Unix time the last run finished.",
	})

	return r
}

// ObserveStage records how long a stage took.
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRun counts a finished run and stamps its completion time.
func (r *Registry) RecordRun(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.RunsTotal.WithLabelValues(status).Inc()
	r.LastRunTimestamp.SetToCurrentTime()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every collector in the text exposition format, for
// the node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
