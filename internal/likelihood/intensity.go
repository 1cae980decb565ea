package likelihood

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rhaversen/lifetracker-analysis/internal/baseline"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/state"
)

// clampEta restricts the linear predictor to [-20, 20] to keep exp(eta) from
// over/underflowing.
func clampEta(eta float64) float64 {
	const limit = 20
	if eta > limit {
		return limit
	}
	if eta < -limit {
		return -limit
	}
	return eta
}

// Eta evaluates the linear predictor for target type k at time timeMs given
// the current recursive state: Beta[k,:].features(t) + Sum_{s!=k} Theta[k][s,:].S[s,:].
func Eta(params *glmparams.PPGLMParams, k int, timeMs float64, rs *state.RecursiveState) float64 {
	f := baseline.Features(timeMs)
	betaRow := params.Beta.RawRowView(k)
	eta := floats.Dot(betaRow, f[:])
	for s := 0; s < params.NumTypes; s++ {
		if s == k {
			continue
		}
		eta += floats.Dot(params.ThetaRow(k, s), rs.Row(s))
	}
	return eta
}

// Intensity returns exp(clamp(Eta(...), -20, 20)), the instantaneous rate of
// target type k at the current state.
func Intensity(params *glmparams.PPGLMParams, k int, timeMs float64, rs *state.RecursiveState) float64 {
	return math.Exp(clampEta(Eta(params, k, timeMs, rs)))
}
