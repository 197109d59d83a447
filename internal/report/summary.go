package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
	"github.com/gyaneshwarpardhi/tempreach/internal/stats"
)

// Summary renders a terminal table comparing the static and temporal
// reachability distributions.
//
// Params:
//   - title: heading above the tables (optional)
type Summary struct{}

func (Summary) Type() string { return "summary" }

func (Summary) Validate(params map[string]interface{}) error {
	if v, ok := params["title"]; ok {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("summary: title must be a string, got %T", v)
		}
	}
	return nil
}

func (Summary) Write(w io.Writer, res *analysis.Result, params map[string]interface{}) error {
	re := lipgloss.NewRenderer(w)
	titleStyle := re.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	headerStyle := re.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	cellStyle := re.NewStyle().Padding(0, 1)
	border := re.NewStyle().Foreground(lipgloss.Color("#888888"))

	title, _ := params["title"].(string)
	if title == "" {
		title = "Reachability"
	}
	styleFunc := func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	}

	st, tt := res.StaticDistribution.Summary, res.TemporalDistribution.Summary
	reach := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		StyleFunc(styleFunc).
		Headers("", analysis.ModelStatic, analysis.ModelTemporal).
		Row("vertices", strconv.Itoa(res.Static.Vertices), strconv.Itoa(res.Temporal.Vertices)).
		Row("edges", strconv.Itoa(res.Static.Edges), strconv.Itoa(res.Temporal.Edges)).
		Row("seeds", count(st), count(tt)).
		Row("min reach", intStat(st, func(s *stats.Summary) int { return s.Min }), intStat(tt, func(s *stats.Summary) int { return s.Min })).
		Row("median reach", floatStat(st, func(s *stats.Summary) float64 { return s.Median }), floatStat(tt, func(s *stats.Summary) float64 { return s.Median })).
		Row("mean reach", floatStat(st, func(s *stats.Summary) float64 { return s.Mean }), floatStat(tt, func(s *stats.Summary) float64 { return s.Mean })).
		Row("max reach", intStat(st, func(s *stats.Summary) int { return s.Max }), intStat(tt, func(s *stats.Summary) int { return s.Max }))

	header := fmt.Sprintf("%s\nrun %s: %d movements, %d premises, days %d..%d",
		titleStyle.Render(title), res.RunID, res.Movements, res.Premises, res.Span.Min, res.Span.Max)
	if res.Filtered > 0 {
		header += fmt.Sprintf(" (%d filtered out)", res.Filtered)
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", header, reach.Render()); err != nil {
		return err
	}

	if sw := res.Switches; sw != nil {
		freq := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(border).
			StyleFunc(styleFunc).
			Headers("switches", "premises")
		counts := make([]int, len(sw.Entries))
		for i, e := range sw.Entries {
			counts[i] = e.Switches
		}
		for _, b := range stats.Frequencies(counts) {
			freq.Row(strconv.Itoa(b.Value), strconv.Itoa(b.Frequency))
		}
		if _, err := fmt.Fprintf(w, "seed %s at t=%d reaches %d premises\n%s\n",
			sw.Seed, sw.SeedTime, len(sw.Entries), freq.Render()); err != nil {
			return err
		}
	}
	return nil
}

func count(s *stats.Summary) string {
	if s == nil {
		return "0"
	}
	return strconv.Itoa(s.Count)
}

func intStat(s *stats.Summary, f func(*stats.Summary) int) string {
	if s == nil {
		return "-"
	}
	return strconv.Itoa(f(s))
}

func floatStat(s *stats.Summary, f func(*stats.Summary) float64) string {
	if s == nil {
		return "-"
	}
	return strconv.FormatFloat(f(s), 'f', 2, 64)
}
