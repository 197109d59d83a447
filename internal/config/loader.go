package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads a YAML config file and watches it, and the files it names,
// for changes.
type Loader struct {
	path     string
	logger   *slog.Logger
	mu       sync.RWMutex
	current  *AnalysisConfig
	onChange []func(*AnalysisConfig)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{path: path, logger: logger}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Config returns the current (latest) configuration.
func (l *Loader) Config() *AnalysisConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*AnalysisConfig)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that reloads the config whenever the
// config file or one of its input files is written. Call the returned stop
// function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	cfg := l.Config()
	for _, p := range []string{l.path, cfg.Input.Movements, cfg.Input.Locations} {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, fmt.Errorf("config watcher add %s: %w", p, err)
		}
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					l.logger.Debug("watched file changed", "path", ev.Name, "op", ev.Op.String())
					if _, err := l.Reload(); err != nil {
						l.logger.Warn("reload failed, keeping previous config", "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("config watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the config file.
func (l *Loader) Reload() (*AnalysisConfig, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(*AnalysisConfig), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) load() (*AnalysisConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}
	// Input and output paths are relative to the config file.
	base := filepath.Dir(l.path)
	cfg.Input.Movements = resolve(base, cfg.Input.Movements)
	cfg.Input.Locations = resolve(base, cfg.Input.Locations)
	cfg.Metrics.Textfile = resolve(base, cfg.Metrics.Textfile)
	for i := range cfg.Reports {
		cfg.Reports[i].Path = resolve(base, cfg.Reports[i].Path)
	}
	return cfg, nil
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*AnalysisConfig, error) {
	var cfg AnalysisConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Apply defaults.
	if cfg.Input.Comma == "" {
		cfg.Input.Comma = ","
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if len(cfg.Reports) == 0 {
		cfg.Reports = []ReportDef{{Type: "summary"}}
	}
	return &cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
