// Package report exports a completed pipeline Result as CSV artifacts and a
// human-readable text summary, for CLI users who are not consuming the JSON
// contract directly.
package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rhaversen/lifetracker-analysis/internal/pipeline"
)

// WriteCoverageCSV writes one row per tracking period to path.
func WriteCoverageCSV(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"start_day", "end_day", "day_count", "event_count", "is_gap"}); err != nil {
		return err
	}
	for _, p := range result.Coverage.Periods {
		record := []string{
			fmt.Sprintf("%d", p.StartDay),
			fmt.Sprintf("%d", p.EndDay),
			fmt.Sprintf("%d", p.DayCount),
			fmt.Sprintf("%d", p.EventCount),
			fmt.Sprintf("%t", p.IsGap),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// WriteEdgesCSV writes one row per influence edge to path, in the order
// given (callers typically pass the already strength-sorted Result.Edges).
func WriteEdgesCSV(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"source_type", "target_type", "peak_lag_ms", "peak_value",
		"mass_time_ms", "integrated_effect", "hr_at_peak", "hr_at_15min",
		"hr_at_1h", "hr_at_6h", "direction", "strength",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range result.Edges {
		record := []string{
			e.SourceType, e.TargetType,
			fmt.Sprintf("%d", e.PeakLagMs), fmt.Sprintf("%f", e.PeakValue),
			fmt.Sprintf("%d", e.MassTimeMs), fmt.Sprintf("%f", e.IntegratedEffect),
			fmt.Sprintf("%f", e.HRAtPeak), fmt.Sprintf("%f", e.HRAt15Min),
			fmt.Sprintf("%f", e.HRAt1Hour), fmt.Sprintf("%f", e.HRAt6Hours),
			string(e.Direction), fmt.Sprintf("%f", e.Strength),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// WriteBaselinesCSV writes one row per fitted type's baseline rhythm to path.
func WriteBaselinesCSV(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"type_name", "hour_amp", "hour_phase", "hour_peak", "hour_harmonic2_amp", "dow_amp", "dow_phase", "dow_peak"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, b := range result.Baselines {
		record := []string{
			b.TypeName,
			fmt.Sprintf("%f", b.HourAmp), fmt.Sprintf("%f", b.HourPhase), fmt.Sprintf("%f", b.HourPeak),
			fmt.Sprintf("%f", b.HourHarmonic2Amplitude),
			fmt.Sprintf("%f", b.DowAmp), fmt.Sprintf("%f", b.DowPhase), fmt.Sprintf("%f", b.DowPeak),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// WriteDiagnosticsCSV writes one row per diagnosed type to path.
func WriteDiagnosticsCSV(path string, result *pipeline.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"type_name", "ks_statistic", "passes_at_05"}); err != nil {
		return err
	}
	for _, d := range result.Diagnostics {
		record := []string{d.TypeName, fmt.Sprintf("%f", d.KSStatistic), fmt.Sprintf("%t", d.PassesAt05)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

// WriteAll writes all four CSV artifacts into dir, using the spec's fixed
// file names (coverage.csv, edges.csv, baselines.csv, diagnostics.csv).
func WriteAll(dir string, result *pipeline.Result) error {
	writers := []struct {
		name string
		fn   func(string, *pipeline.Result) error
	}{
		{"coverage.csv", WriteCoverageCSV},
		{"edges.csv", WriteEdgesCSV},
		{"baselines.csv", WriteBaselinesCSV},
		{"diagnostics.csv", WriteDiagnosticsCSV},
	}
	for _, w := range writers {
		if err := w.fn(dir+string(os.PathSeparator)+w.name, result); err != nil {
			return fmt.Errorf("writing %s: %w", w.name, err)
		}
	}
	return nil
}
