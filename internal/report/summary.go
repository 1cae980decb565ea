package report

import (
	"fmt"
	"io"

	"github.com/rhaversen/lifetracker-analysis/internal/pipeline"
)

// PrintSummary renders coverage, the strongest influence edges, and baseline
// rhythms as aligned tabular text, for CLI users not piping to JSON.
func PrintSummary(w io.Writer, result *pipeline.Result) {
	if result == nil {
		fmt.Fprintln(w, "no result")
		return
	}

	fmt.Fprintln(w, "         Life-Event Analysis Summary      ")
	fmt.Fprintf(w, "Run ID:                  %s\n", result.RunID)
	fmt.Fprintf(w, "Events observed:         %d\n", result.NumEvents)
	fmt.Fprintf(w, "Distinct types:          %d\n", result.NumTypes)
	fmt.Fprintf(w, "Model fitted:            %v\n", result.ModelFitted)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Coverage:")
	fmt.Fprintf(w, "  Total days:            %d\n", result.Coverage.TotalDays)
	fmt.Fprintf(w, "  Active days:           %d\n", result.Coverage.ActiveDays)
	fmt.Fprintf(w, "  Gap days:              %d\n", result.Coverage.GapDays)
	fmt.Fprintf(w, "  Coverage:              %.1f%%\n", result.Coverage.CoveragePercent)
	fmt.Fprintf(w, "  Tracking periods:      %d\n", len(result.Coverage.Periods))
	fmt.Fprintln(w)

	if !result.ModelFitted {
		fmt.Fprintln(w, "Model was not fitted (insufficient data).")
		return
	}

	fmt.Fprintln(w, "Top influence edges:")
	maxEdges := 10
	if len(result.Edges) < maxEdges {
		maxEdges = len(result.Edges)
	}
	for _, e := range result.Edges[:maxEdges] {
		fmt.Fprintf(w, "  %-16s -> %-16s  %-8s strength=%.3f  peakLag=%dms  massTime=%dms\n",
			e.SourceType, e.TargetType, e.Direction, e.Strength, e.PeakLagMs, e.MassTimeMs)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Baseline rhythms:")
	for _, b := range result.Baselines {
		fmt.Fprintf(w, "  %-16s hourAmp=%.3f hourPeak=%.1fh  dowAmp=%.3f dowPeak=%.0f\n",
			b.TypeName, b.HourAmp, b.HourPeak, b.DowAmp, b.DowPeak)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diagnostics:")
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "  %-16s KS=%.4f pass@5%%=%v\n", d.TypeName, d.KSStatistic, d.PassesAt05)
	}
}
