// Package pipeline orchestrates coverage segmentation, window/stream
// assembly, model fitting, summarization, and diagnostics into a single
// state machine, emitting a progress message before each stage and exactly
// one terminal result or error.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rhaversen/lifetracker-analysis/internal/coverage"
	"github.com/rhaversen/lifetracker-analysis/internal/diagnostics"
	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/fit"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/obslog"
	"github.com/rhaversen/lifetracker-analysis/internal/runid"
	"github.com/rhaversen/lifetracker-analysis/internal/summarize"
	"github.com/rhaversen/lifetracker-analysis/internal/window"
)

// Stage names the pipeline's state machine positions.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageCoverage  Stage = "coverage"
	StageStream    Stage = "stream"
	StageFit       Stage = "fit"
	StageSummarize Stage = "summarize"
	StageDiagnose  Stage = "diagnose"
	StageDone      Stage = "done"
	StageAborted   Stage = "aborted"
	StageError     Stage = "error"
)

// MinUsableEvents and MinTypes are the eligibility thresholds checked after
// the stream is assembled; failing either aborts with modelFitted=false
// rather than attempting a fit.
const (
	MinUsableEvents = 50
	MinTypes        = 2
)

// Progress is one point-in-time status update; a run emits zero or more of
// these before its single terminal Result or error.
type Progress struct {
	RunID   string
	Stage   Stage
	Percent int
	Detail  string
}

// ProgressFunc receives progress updates as the pipeline advances.
type ProgressFunc func(Progress)

// Options configures a single pipeline run.
type Options struct {
	NumBases     int
	MaxIter      int
	LearningRate float64
	Lambda1      float64
	Lambda2      float64
	MinStrength  float64
	MaxInsights  int
}

// DefaultOptions returns the spec's default analysis options.
func DefaultOptions() Options {
	fo := fit.DefaultOptions()
	return Options{
		NumBases:     fo.NumBases,
		MaxIter:      fo.MaxIter,
		LearningRate: fo.LearningRate,
		Lambda1:      fo.Lambda1,
		Lambda2:      fo.Lambda2,
		MinStrength:  summarize.MinStrength,
		MaxInsights:  20,
	}
}

func (o Options) fitOptions() fit.Options {
	fo := fit.DefaultOptions()
	fo.NumBases = o.NumBases
	fo.MaxIter = o.MaxIter
	fo.LearningRate = o.LearningRate
	fo.Lambda1 = o.Lambda1
	fo.Lambda2 = o.Lambda2
	return fo
}

// InsightKind classifies a derived human-readable summary.
type InsightKind string

const (
	InsightInfluence    InsightKind = "influence"
	InsightRhythm       InsightKind = "rhythm"
	InsightCoOccurrence InsightKind = "co-occurrence"
)

// coOccurrenceMassTimeMs is the 50%-mass-time threshold, in milliseconds,
// below which an influence edge is additionally surfaced as a
// co-occurrence insight (spec.md §9, Open Question (b)).
const coOccurrenceMassTimeMs = 15 * 60 * 1000

// Insight is one derived human-readable summary line.
type Insight struct {
	Kind InsightKind
	Text string
}

// Result is the serializable output of one completed or aborted run.
type Result struct {
	RunID              string
	Coverage           coverage.Result
	TotalObservedHours float64
	NumEvents          int
	NumTypes           int
	ModelFitted        bool
	Edges              []summarize.Edge
	Baselines          []summarize.Baseline
	Diagnostics        []diagnostics.Result
	Insights           []Insight
}

// Run executes the full state machine against events with opts, reporting
// progress through onProgress. It returns ctx.Err() (and a nil Result) if
// canceled — per spec, cancellation is quiet termination, not an error
// message; the caller is expected to discard a (nil, ctx.Err()) return
// without surfacing it as a pipeline error. Any other failure is returned as
// a non-nil error with partial state discarded.
func Run(ctx context.Context, events []eventmodel.Event, opts Options, onProgress ProgressFunc) (*Result, error) {
	runID := runid.New()
	report := func(stage Stage, percent int, detail string) {
		if onProgress != nil {
			onProgress(Progress{RunID: runID, Stage: stage, Percent: percent, Detail: detail})
		}
	}

	report(StageCoverage, 5, "segmenting coverage")
	cov := coverage.Analyze(events)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(StageStream, 10, "assembling observation windows")
	windows := window.FromPeriods(cov.Periods)
	stream := window.BuildEventStream(events, windows)

	numTypes := stream.NumTypes()
	numEvents := stream.NumEvents()

	result := &Result{
		RunID:              runID,
		Coverage:           cov,
		TotalObservedHours: window.TotalObservedHours(windows),
		NumEvents:          numEvents,
		NumTypes:           numTypes,
	}

	if len(windows) == 0 || numEvents < MinUsableEvents || numTypes < MinTypes {
		obslog.Info("run %s aborted: windows=%d events=%d types=%d", runID, len(windows), numEvents, numTypes)
		report(StageAborted, 100, "insufficient data")
		result.ModelFitted = false
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(StageFit, 15, "fitting model")
	fullFit, err := fit.Fit(ctx, windows, stream, opts.fitOptions(), func(fitted, total int, typeName string) {
		percent := 15
		if total > 0 {
			percent = 15 + int(70*float64(fitted)/float64(total))
		}
		report(StageFit, percent, fmt.Sprintf("fitted %s (%d/%d)", typeName, fitted, total))
	})
	if err != nil {
		return nil, err
	}
	result.ModelFitted = fullFit.ModelFitted

	report(StageSummarize, 90, "summarizing edges and baselines")
	result.Edges = summarize.Edges(fullFit, opts.MinStrength)
	result.Baselines = summarize.Baselines(fullFit)

	report(StageDiagnose, 95, "running KS diagnostics")
	result.Diagnostics = runDiagnostics(windows, stream, fullFit)

	result.Insights = buildInsights(result, opts.MaxInsights)

	report(StageDone, 100, "done")
	return result, nil
}

func runDiagnostics(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, fullFit *glmparams.FullModelFit) []diagnostics.Result {
	var results []diagnostics.Result
	for k := range fullFit.TypeNames {
		if !fullFit.Eligible(k) {
			continue
		}
		results = append(results, diagnostics.Evaluate(windows, stream, k, fullFit.Params))
	}
	return results
}

func buildInsights(result *Result, maxInsights int) []Insight {
	if maxInsights <= 0 {
		return nil
	}

	var insights []Insight
	for _, e := range result.Edges {
		insights = append(insights, Insight{
			Kind: InsightInfluence,
			Text: fmt.Sprintf("%s %ss %s (strength %.2f, peak lag %s)", e.SourceType, string(e.Direction), e.TargetType, e.Strength, formatLag(e.PeakLagMs)),
		})
		if e.MassTimeMs < coOccurrenceMassTimeMs {
			insights = append(insights, Insight{
				Kind: InsightCoOccurrence,
				Text: fmt.Sprintf("%s and %s tend to co-occur (50%% mass time %s)", e.SourceType, e.TargetType, formatLag(e.MassTimeMs)),
			})
		}
		if len(insights) >= maxInsights {
			break
		}
	}

	for _, b := range result.Baselines {
		if len(insights) >= maxInsights {
			break
		}
		if b.HourAmp < 0.3 {
			continue
		}
		insights = append(insights, Insight{
			Kind: InsightRhythm,
			Text: fmt.Sprintf("%s peaks around %.0f:00 daily", b.TypeName, b.HourPeak),
		})
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func formatLag(ms int64) string {
	hours := float64(ms) / eventmodel.MsPerHour
	if hours < 1 {
		return fmt.Sprintf("%.0fmin", hours*60)
	}
	return fmt.Sprintf("%.1fh", hours)
}
