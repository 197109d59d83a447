package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
	"github.com/gyaneshwarpardhi/tempreach/internal/config"
)

// SnappySuffix marks report paths written in the snappy framing format.
const SnappySuffix = ".sz"

// Reporter is the interface all report implementations must satisfy.
type Reporter interface {
	// Type returns the string key this reporter is registered under.
	Type() string
	// Validate checks params before any run (called with the config).
	Validate(params map[string]interface{}) error
	// Write renders res to w.
	Write(w io.Writer, res *analysis.Result, params map[string]interface{}) error
}

// Validate checks that every report definition names a registered reporter
// with valid params. All problems are reported together.
func (r *Registry) Validate(defs []config.ReportDef) error {
	var errs []string
	for i, d := range defs {
		rep, err := r.Get(d.Type)
		if err != nil {
			errs = append(errs, fmt.Sprintf("reports[%d]: %v", i, err))
			continue
		}
		if err := rep.Validate(d.Params); err != nil {
			errs = append(errs, fmt.Sprintf("reports[%d]: %v", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("report validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Emit writes every defined report for res. Reports without a path go to
// stdout; missing parent directories are created.
func (r *Registry) Emit(res *analysis.Result, defs []config.ReportDef, stdout io.Writer) error {
	for i, d := range defs {
		rep, err := r.Get(d.Type)
		if err != nil {
			return fmt.Errorf("reports[%d]: %w", i, err)
		}
		if d.Path == "" {
			if err := rep.Write(stdout, res, d.Params); err != nil {
				return fmt.Errorf("reports[%d] %s: %w", i, d.Type, err)
			}
			continue
		}
		if err := writeFile(d.Path, func(w io.Writer) error { return rep.Write(w, res, d.Params) }); err != nil {
			return fmt.Errorf("reports[%d] %s: %w", i, d.Type, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if strings.HasSuffix(path, SnappySuffix) {
		sw := snappy.NewBufferedWriter(f)
		if err := write(sw); err != nil {
			return err
		}
		return sw.Close()
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}
