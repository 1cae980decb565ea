// Package glmparams defines the parameter object fit by the optimizer
// (internal/fit) and consumed by the summarizer and diagnostics stages.
package glmparams

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rhaversen/lifetracker-analysis/internal/baseline"
)

// ClampLimit bounds every parameter to [-ClampLimit, +ClampLimit] after each
// optimizer step, per spec.
const ClampLimit = 50

// PPGLMParams holds the shared parameter object for every target type's
// Poisson-process GLM: one baseline coefficient row and one influence
// coefficient matrix per target type.
//
// Beta is numTypes x baseline.NumFeatures (row k: target type k's baseline
// coefficients). Theta[k] is numTypes x numBases (row s: source type s's
// influence weights on target k; the diagonal row k is never read or
// written). Both are owned by the FullModelFit that created them and mutated
// in place by the optimizer.
type PPGLMParams struct {
	NumTypes int
	NumBases int
	Beta     *mat.Dense   // numTypes x baseline.NumFeatures
	Theta    []*mat.Dense // len numTypes, each numTypes x numBases
}

// New allocates a zeroed parameter object for numTypes event types and
// numBases basis timescales.
func New(numTypes, numBases int) *PPGLMParams {
	theta := make([]*mat.Dense, numTypes)
	for k := range theta {
		theta[k] = mat.NewDense(numTypes, numBases, nil)
	}
	return &PPGLMParams{
		NumTypes: numTypes,
		NumBases: numBases,
		Beta:     mat.NewDense(numTypes, baseline.NumFeatures, nil),
		Theta:    theta,
	}
}

// Clone returns a deep copy, used by tests needing a reproducible snapshot
// before fitting mutates the original in place.
func (p *PPGLMParams) Clone() *PPGLMParams {
	out := New(p.NumTypes, p.NumBases)
	out.Beta.Copy(p.Beta)
	for k := range p.Theta {
		out.Theta[k].Copy(p.Theta[k])
	}
	return out
}

// clampRow restricts every entry of row to [-ClampLimit, ClampLimit],
// resetting non-finite values to 0.
func clampRow(row []float64) {
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			row[i] = 0
			continue
		}
		if v > ClampLimit {
			row[i] = ClampLimit
		} else if v < -ClampLimit {
			row[i] = -ClampLimit
		}
	}
}

// ClampTarget clamps and sanitizes Beta[k,:] and every Theta[k][s,:] row for
// s != k, leaving other targets' rows untouched.
func (p *PPGLMParams) ClampTarget(k int) {
	clampRow(p.Beta.RawRowView(k))
	thetaK := p.Theta[k]
	for s := 0; s < p.NumTypes; s++ {
		if s == k {
			continue
		}
		clampRow(thetaK.RawRowView(s))
	}
}

// ThetaRow returns the influence weight row theta[k][s,:] (source s's effect
// on target k), length NumBases.
func (p *PPGLMParams) ThetaRow(k, s int) []float64 {
	return p.Theta[k].RawRowView(s)
}

// FitResult holds the outcome of fitting a single target type.
type FitResult struct {
	TypeIndex     int
	FinalLogLik   float64
	Converged     bool
	Iterations    int
	EligibleCount int // number of events of this type used to fit it
}

// FullModelFit aggregates the shared parameters and the per-target fit
// outcomes produced by internal/fit. Only targets with >= 10 events are
// populated in Results.
type FullModelFit struct {
	Params       *PPGLMParams
	Results      map[int]*FitResult // target type index -> result
	TypeNames    []string
	ModelFitted  bool
}

// Eligible reports whether target type k has a fit result.
func (f *FullModelFit) Eligible(k int) bool {
	if f == nil || f.Results == nil {
		return false
	}
	_, ok := f.Results[k]
	return ok
}
