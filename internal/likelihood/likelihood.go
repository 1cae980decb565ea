// Package likelihood computes the regularized log-likelihood and gradient of
// the point-process GLM for a single target event type, by interleaving event
// ticks and quadrature ticks in time order and maintaining recursive decaying
// state across the merged timeline (internal/state). This keeps a single
// likelihood evaluation to O((N+Q)*K*B) instead of the O(N*H) cost of
// replaying full history per event.
package likelihood

import (
	"math"

	"github.com/rhaversen/lifetracker-analysis/internal/baseline"
	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/state"
)

// DefaultQuadraturePoints is the number of quadrature sub-intervals per
// window used when fitting (LG). Diagnostics (DG) uses a coarser grid.
const DefaultQuadraturePoints = 50

// DiagnosticQuadraturePoints is the quadrature resolution used by the KS
// diagnostic, coarser than fitting because it only needs an integral, not a
// gradient.
const DiagnosticQuadraturePoints = 20

// Options configures one likelihood evaluation.
type Options struct {
	QuadraturePoints int
	Lambda1          float64 // L1 penalty on theta
	Lambda2          float64 // L2 penalty on theta
}

// Gradient holds the gradient of the regularized log-likelihood with respect
// to target k's own parameter rows.
type Gradient struct {
	Beta  [baseline.NumFeatures]float64
	Theta map[int][]float64 // source type index -> d L / d theta[k][s,:]
}

func newGradient(numTypes, numBases int) *Gradient {
	return &Gradient{Theta: make(map[int][]float64, numTypes)}
}

func (g *Gradient) thetaRow(s, numBases int) []float64 {
	row, ok := g.Theta[s]
	if !ok {
		row = make([]float64, numBases)
		g.Theta[s] = row
	}
	return row
}

// Evaluate computes the regularized log-likelihood and gradient for target
// type k over windows, given the current params. Every type in the stream is
// treated as a source type; params.NumTypes must equal the stream's type count.
func Evaluate(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, k int, params *glmparams.PPGLMParams, opts Options) (logLik float64, grad *Gradient) {
	q := opts.QuadraturePoints
	if q <= 0 {
		q = DefaultQuadraturePoints
	}

	ticks := BuildTicks(windows, stream, q)
	rs := state.New(params.NumTypes, params.NumBases)
	grad = newGradient(params.NumTypes, params.NumBases)

	for i := 0; i < len(ticks); {
		tick := ticks[i]
		rs.Advance(tick.TimeHours)
		timeMs := tick.TimeHours * eventmodel.MsPerHour

		if !tick.IsEvent {
			eta := Eta(params, k, timeMs, rs)
			lambda := math.Exp(clampEta(eta))
			dt := tick.DtHours

			logLik -= lambda * dt

			f := baseline.Features(timeMs)
			for j, fj := range f {
				grad.Beta[j] -= lambda * fj * dt
			}
			for s := 0; s < params.NumTypes; s++ {
				if s == k {
					continue
				}
				sRow := rs.Row(s)
				gRow := grad.thetaRow(s, params.NumBases)
				for b, sb := range sRow {
					gRow[b] -= lambda * sb * dt
				}
			}
			i++
			continue
		}

		// Every event sharing this exact instant is scored against the state
		// as it stood before any of them arrived, and only then incremented
		// as a group — two simultaneous events must not see each other.
		j := i
		for j < len(ticks) && ticks[j].IsEvent && ticks[j].TimeHours == tick.TimeHours {
			j++
		}

		for idx := i; idx < j; idx++ {
			if ticks[idx].TypeIdx != k {
				continue
			}
			eta := Eta(params, k, timeMs, rs)
			logLik += clampEta(eta)

			f := baseline.Features(timeMs)
			for jf, fj := range f {
				grad.Beta[jf] += fj
			}
			for s := 0; s < params.NumTypes; s++ {
				if s == k {
					continue
				}
				sRow := rs.Row(s)
				gRow := grad.thetaRow(s, params.NumBases)
				for b, sb := range sRow {
					gRow[b] += sb
				}
			}
		}

		for idx := i; idx < j; idx++ {
			rs.Increment(ticks[idx].TypeIdx)
		}

		i = j
	}

	applyRegularization(params, k, opts, &logLik, grad)
	return logLik, grad
}

// applyRegularization adds -lambda1*|theta| - lambda2*theta^2 to logLik and
// -lambda1*sign(theta) - 2*lambda2*theta to the theta gradient, for every
// source row s != k and every basis b.
func applyRegularization(params *glmparams.PPGLMParams, k int, opts Options, logLik *float64, grad *Gradient) {
	for s := 0; s < params.NumTypes; s++ {
		if s == k {
			continue
		}
		thetaRow := params.ThetaRow(k, s)
		gRow := grad.thetaRow(s, params.NumBases)
		for b, w := range thetaRow {
			*logLik -= opts.Lambda1*math.Abs(w) + opts.Lambda2*w*w
			gRow[b] -= opts.Lambda1*sign(w) + 2*opts.Lambda2*w
		}
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
