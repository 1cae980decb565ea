// Package fit implements the Adam-optimized maximum-likelihood fitting stage
// (FT) of the analysis pipeline: it seeds parameters from marginal event
// rates, then fits each eligible target type's baseline and influence rows
// independently, yielding cooperatively between targets so a host can relay
// progress.
package fit

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/likelihood"
	"github.com/rhaversen/lifetracker-analysis/internal/obslog"
)

// ProgressFunc is invoked once per eligible target, after it finishes
// fitting, with the number of eligible targets fitted so far (1-based, so the
// last call has fitted == total) and the total eligible count. The pipeline uses this to derive the overall percent.
type ProgressFunc func(fitted, total int, typeName string)

// initParamsFromData seeds every type's baseline intercept from its marginal
// event rate; all other baseline and influence coefficients start at zero.
func initParamsFromData(stream *eventmodel.EventStream, windows []eventmodel.ObservationWindow, numBases int) *glmparams.PPGLMParams {
	numTypes := stream.NumTypes()
	params := glmparams.New(numTypes, numBases)

	var totalHours float64
	for _, w := range windows {
		totalHours += w.LengthHours()
	}
	if totalHours < 1 {
		totalHours = 1
	}

	counts := stream.CountByType()
	for k, count := range counts {
		params.Beta.Set(k, 0, math.Log((float64(count)+0.5)/totalHours))
	}
	return params
}

// eligibleTargets returns the type indices with at least MinEventsPerTarget
// of their own events, in ascending order (deterministic iteration order).
func eligibleTargets(counts []int) []int {
	var out []int
	for k, c := range counts {
		if c >= MinEventsPerTarget {
			out = append(out, k)
		}
	}
	return out
}

// Fit seeds and fits the full model. If the context is canceled between
// targets it returns a nil fit and ctx.Err(); no partial fit is returned.
func Fit(ctx context.Context, windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, opts Options, onProgress ProgressFunc) (*glmparams.FullModelFit, error) {
	numBases := opts.NumBases
	if numBases <= 0 || numBases > 9 {
		numBases = 6
	}

	params := initParamsFromData(stream, windows, numBases)
	counts := stream.CountByType()
	targets := eligibleTargets(counts)

	result := &glmparams.FullModelFit{
		Params:      params,
		Results:     make(map[int]*glmparams.FitResult, len(targets)),
		TypeNames:   stream.TypeName,
		ModelFitted: len(targets) > 0,
	}

	likelihoodOpts := likelihood.Options{
		QuadraturePoints: opts.QuadraturePoints,
		Lambda1:          opts.Lambda1,
		Lambda2:          opts.Lambda2,
	}

	var nonConvergence error
	for i, k := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr := fitTarget(windows, stream, k, params, opts, likelihoodOpts)
		fr.EligibleCount = counts[k]
		result.Results[k] = fr

		if !fr.Converged {
			nonConvergence = multierr.Append(nonConvergence, fmt.Errorf("%s: did not converge within %d iterations", stream.TypeName[k], opts.MaxIter))
		}

		if onProgress != nil {
			onProgress(i+1, len(targets), stream.TypeName[k])
		}
	}

	// Non-convergence of individual targets is not a pipeline failure (spec
	// §7: recovery is purely local); it is surfaced only as a warning log so
	// the fit as a whole still completes.
	if nonConvergence != nil {
		obslog.Warn("fit: %v", nonConvergence)
	}

	return result, nil
}

// fitTarget runs Adam to maximize the regularized log-likelihood for target
// type k, mutating params.Beta[k,:] and params.Theta[k][s!=k,:] in place.
func fitTarget(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, k int, params *glmparams.PPGLMParams, opts Options, likeOpts likelihood.Options) *glmparams.FitResult {
	betaRow := params.Beta.RawRowView(k)
	thetaRows := make(map[int][]float64, params.NumTypes-1)
	for s := 0; s < params.NumTypes; s++ {
		if s == k {
			continue
		}
		thetaRows[s] = params.ThetaRow(k, s)
	}

	moments := newAdamMoments(params.NumBases)

	prevLogLik := math.Inf(-1)
	converged := false
	iter := 0

	for ; iter < opts.MaxIter; iter++ {
		logLik, grad := likelihood.Evaluate(windows, stream, k, params, likeOpts)
		if math.IsNaN(logLik) || math.IsInf(logLik, 0) {
			logLik = prevLogLik
		}

		adamUpdate(betaRow, thetaRows, grad, moments, opts)
		params.ClampTarget(k)

		delta := logLik - prevLogLik
		prevLogLik = logLik

		if iter > 0 && math.Abs(delta) < opts.Tolerance {
			converged = true
			iter++
			break
		}
	}

	finalLogLik, _ := likelihood.Evaluate(windows, stream, k, params, likeOpts)

	return &glmparams.FitResult{
		TypeIndex:   k,
		FinalLogLik: finalLogLik,
		Converged:   converged,
		Iterations:  iter,
	}
}
