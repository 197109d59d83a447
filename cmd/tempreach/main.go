package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
	"github.com/gyaneshwarpardhi/tempreach/internal/config"
	"github.com/gyaneshwarpardhi/tempreach/internal/metrics"
	"github.com/gyaneshwarpardhi/tempreach/internal/report"
)

func main() {
	cfgPath := flag.String("config", "tempreach.yaml", "Path to analysis YAML config")
	watch := flag.Bool("watch", false, "Re-run whenever the config or its input files change")
	level := flag.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	flag.Parse()

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath, nil)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	logger := newLogger(cfg.Log, *level)
	slog.SetDefault(logger)

	reg := report.Default()
	if err := validate(cfg, reg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewRegistry()
	runner := analysis.NewRunner(logger, m)

	if err := run(ctx, runner, reg, m, cfg); err != nil {
		slog.Error("run failed", "err", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	// ── Watch mode ───────────────────────────────────────────────────────────
	rerun := make(chan struct{}, 1)
	loader.OnChange(func(*config.AnalysisConfig) {
		select {
		case rerun <- struct{}{}:
		default:
			// A re-run is already pending; it will pick up the latest config.
		}
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Error("config watcher unavailable", "err", err)
		os.Exit(1)
	}
	defer stopWatch()
	slog.Info("watching for changes", "config", *cfgPath)

	for {
		select {
		case <-rerun:
			newCfg := loader.Config()
			if err := validate(newCfg, reg); err != nil {
				slog.Warn("re-run skipped: config invalid", "err", err)
				continue
			}
			if err := run(ctx, runner, reg, m, newCfg); err != nil {
				slog.Error("run failed", "err", err)
			}
		case <-ctx.Done():
			slog.Info("shutting down")
			return
		}
	}
}

func validate(cfg *config.AnalysisConfig, reg *report.Registry) error {
	return errors.Join(config.Validate(cfg), reg.Validate(cfg.Reports))
}

func run(ctx context.Context, runner *analysis.Runner, reg *report.Registry, m *metrics.Registry, cfg *config.AnalysisConfig) error {
	res, runErr := runner.Run(ctx, cfg)
	if runErr == nil {
		if err := reg.Emit(res, cfg.Reports, os.Stdout); err != nil {
			runErr = fmt.Errorf("reports: %w", err)
		}
	}
	// Metrics are written even for failed runs so the failure is visible.
	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("metrics not written", "err", err)
		}
	}
	return runErr
}

func newLogger(conf config.LogConf, override string) *slog.Logger {
	name := conf.Level
	if override != "" {
		name = override
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if conf.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
