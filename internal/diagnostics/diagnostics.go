// Package diagnostics validates a fitted model with the time-rescaling
// theorem: if the fitted intensity is correct, the integrals of that
// intensity between a target type's consecutive events are i.i.d.
// Exponential(1), and a one-sample Kolmogorov-Smirnov test against that null
// gives a model-fit goodness check independent of in-sample log-likelihood.
package diagnostics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/likelihood"
	"github.com/rhaversen/lifetracker-analysis/internal/state"
)

// MinEventsForKS is the minimum number of a target's own events required to
// run the KS test at all.
const MinEventsForKS = 10

// QuadraturePoints is the per-window quadrature resolution diagnostics uses,
// coarser than fitting because only an integral, not a gradient, is needed.
const QuadraturePoints = likelihood.DiagnosticQuadraturePoints

// Result holds one target type's goodness-of-fit outcome.
type Result struct {
	TypeName    string
	KSStatistic float64
	PassesAt05  bool
}

// Evaluate computes the KS diagnostic for target type k. If k has fewer
// than MinEventsForKS events in stream, it returns the spec's fallback
// (KS=1, pass=false) without attempting the integral.
func Evaluate(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, k int, params *glmparams.PPGLMParams) Result {
	typeName := ""
	if k >= 0 && k < len(stream.TypeName) {
		typeName = stream.TypeName[k]
	}

	if countOfType(stream, k) < MinEventsForKS {
		return Result{TypeName: typeName, KSStatistic: 1, PassesAt05: false}
	}

	lambdas := integratedIntensities(windows, stream, k, params, QuadraturePoints)
	if len(lambdas) == 0 {
		return Result{TypeName: typeName, KSStatistic: 1, PassesAt05: false}
	}

	ks := kolmogorovSmirnov(lambdas)
	pass := ks < 1.36/math.Sqrt(float64(len(lambdas)))
	return Result{TypeName: typeName, KSStatistic: ks, PassesAt05: pass}
}

func countOfType(stream *eventmodel.EventStream, k int) int {
	var n int
	for _, idx := range stream.TypeIdx {
		if idx == k {
			n++
		}
	}
	return n
}

// integratedIntensities walks the merged event/quadrature timeline once,
// accumulating Sum lambda_k*dt between consecutive events of type k. The
// interval before the first event of type k is discarded, matching the
// spec's inter-event definition.
func integratedIntensities(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, k int, params *glmparams.PPGLMParams, q int) []float64 {
	ticks := likelihood.BuildTicks(windows, stream, q)
	rs := state.New(params.NumTypes, params.NumBases)

	var lambdas []float64
	var acc float64
	started := false

	for i := 0; i < len(ticks); {
		tick := ticks[i]
		rs.Advance(tick.TimeHours)
		timeMs := tick.TimeHours * eventmodel.MsPerHour

		if !tick.IsEvent {
			if started {
				acc += likelihood.Intensity(params, k, timeMs, rs) * tick.DtHours
			}
			i++
			continue
		}

		// Every event sharing this exact instant is scored (interval closed
		// or not) against the state as it stood before any of them arrived,
		// and only then incremented as a group.
		j := i
		for j < len(ticks) && ticks[j].IsEvent && ticks[j].TimeHours == tick.TimeHours {
			j++
		}

		for idx := i; idx < j; idx++ {
			if ticks[idx].TypeIdx != k {
				continue
			}
			if started {
				lambdas = append(lambdas, acc)
			}
			acc = 0
			started = true
		}

		for idx := i; idx < j; idx++ {
			rs.Increment(ticks[idx].TypeIdx)
		}

		i = j
	}

	return lambdas
}

// kolmogorovSmirnov computes the one-sample two-sided KS statistic of
// samples against the standard Exponential(1) CDF.
func kolmogorovSmirnov(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	dist := distuv.Exponential{Rate: 1}
	n := float64(len(sorted))

	var maxDiff float64
	for i, x := range sorted {
		theoretical := dist.CDF(x)
		before := float64(i) / n
		after := float64(i+1) / n
		if d := math.Abs(theoretical - before); d > maxDiff {
			maxDiff = d
		}
		if d := math.Abs(after - theoretical); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
