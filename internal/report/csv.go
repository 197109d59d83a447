package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
)

// ErrNotComputed is returned when a report needs a part of the result the
// run was not configured to compute.
var ErrNotComputed = errors.New("not computed by this run")

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SwitchesCSV writes one row per premise reached from the seed. Coordinates
// are appended when locations were loaded, which is what a map of the
// outbreak is drawn from.
//
// Params:
//   - coordinates: include x,y columns (default true when locations exist)
type SwitchesCSV struct{}

func (SwitchesCSV) Type() string { return "switches_csv" }

func (SwitchesCSV) Validate(params map[string]interface{}) error {
	if v, ok := params["coordinates"]; ok {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("switches_csv: coordinates must be a boolean, got %T", v)
		}
	}
	return nil
}

func (SwitchesCSV) Write(w io.Writer, res *analysis.Result, params map[string]interface{}) error {
	if res.Switches == nil {
		return fmt.Errorf("switch counts: %w (set analysis.seed)", ErrNotComputed)
	}
	coords := len(res.Locations) > 0
	if v, ok := params["coordinates"].(bool); ok {
		coords = coords && v
	}

	header := []string{"node", "switches", "arrival"}
	if coords {
		header = append(header, "x", "y")
	}
	rows := make([][]string, 0, len(res.Switches.Entries))
	for _, e := range res.Switches.Entries {
		row := []string{string(e.Node), strconv.Itoa(e.Switches), strconv.Itoa(e.Arrival)}
		if coords {
			// Premises without a location keep empty coordinate cells.
			x, y := "", ""
			if loc, ok := res.Location(e.Node); ok {
				x, y = formatFloat(loc.X), formatFloat(loc.Y)
			}
			row = append(row, x, y)
		}
		rows = append(rows, row)
	}
	return writeCSV(w, header, rows)
}

// DistributionCSV writes the reachable-set size of every seed.
//
// Params:
//   - model: "static" or "temporal" (default both)
type DistributionCSV struct{}

func (DistributionCSV) Type() string { return "distribution_csv" }

func (DistributionCSV) Validate(params map[string]interface{}) error {
	v, ok := params["model"]
	if !ok {
		return nil
	}
	m, _ := v.(string)
	if m != analysis.ModelStatic && m != analysis.ModelTemporal {
		return fmt.Errorf("distribution_csv: model must be %q or %q, got %v", analysis.ModelStatic, analysis.ModelTemporal, v)
	}
	return nil
}

func (DistributionCSV) Write(w io.Writer, res *analysis.Result, params map[string]interface{}) error {
	model, _ := params["model"].(string)
	var rows [][]string
	for _, d := range []analysis.Distribution{res.StaticDistribution, res.TemporalDistribution} {
		if model != "" && d.Model != model {
			continue
		}
		for _, e := range d.Entries {
			rows = append(rows, []string{d.Model, string(e.Seed), strconv.Itoa(e.Size)})
		}
	}
	return writeCSV(w, []string{"model", "seed", "size"}, rows)
}

// DegreesCSV writes the in- and out-degree frequency distributions of the
// static graph.
type DegreesCSV struct{}

func (DegreesCSV) Type() string { return "degrees_csv" }

func (DegreesCSV) Validate(map[string]interface{}) error { return nil }

func (DegreesCSV) Write(w io.Writer, res *analysis.Result, _ map[string]interface{}) error {
	if res.InDegrees == nil && res.OutDegrees == nil {
		return fmt.Errorf("degree distributions: %w (set analysis.degrees)", ErrNotComputed)
	}
	var rows [][]string
	for _, b := range res.InDegrees {
		rows = append(rows, []string{"in", strconv.Itoa(b.Value), strconv.Itoa(b.Frequency)})
	}
	for _, b := range res.OutDegrees {
		rows = append(rows, []string{"out", strconv.Itoa(b.Value), strconv.Itoa(b.Frequency)})
	}
	return writeCSV(w, []string{"direction", "degree", "frequency"}, rows)
}

// WindowsCSV writes the out-degree statistics per window size.
type WindowsCSV struct{}

func (WindowsCSV) Type() string { return "windows_csv" }

func (WindowsCSV) Validate(map[string]interface{}) error { return nil }

func (WindowsCSV) Write(w io.Writer, res *analysis.Result, _ map[string]interface{}) error {
	if res.Windows == nil {
		return fmt.Errorf("out-degree windows: %w (set analysis.windows)", ErrNotComputed)
	}
	rows := make([][]string, 0, len(res.Windows))
	for _, ws := range res.Windows {
		rows = append(rows, []string{strconv.Itoa(ws.Window), strconv.Itoa(ws.MaxOut), formatFloat(ws.MeanOut)})
	}
	return writeCSV(w, []string{"window", "max_out", "mean_out"}, rows)
}
