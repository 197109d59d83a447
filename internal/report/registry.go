package report

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps report type strings to their reporters.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	reporters map[string]Reporter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{reporters: make(map[string]Reporter)}
}

// Default returns a Registry holding every built-in reporter.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Summary{})
	r.Register(JSON{})
	r.Register(SwitchesCSV{})
	r.Register(DistributionCSV{})
	r.Register(DegreesCSV{})
	r.Register(WindowsCSV{})
	return r
}

// Register adds a reporter. Panics on duplicate type to surface misconfiguration early.
func (r *Registry) Register(rep Reporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reporters[rep.Type()]; exists {
		panic(fmt.Sprintf("report registry: duplicate type %q", rep.Type()))
	}
	r.reporters[rep.Type()] = rep
}

// Get returns the reporter for the given type.
func (r *Registry) Get(reportType string) (Reporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reporters[reportType]
	if !ok {
		return nil, fmt.Errorf("no reporter registered for type %q", reportType)
	}
	return rep, nil
}

// Types returns all registered report types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.reporters))
	for k := range r.reporters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
