package fit

import (
	"math"

	"github.com/rhaversen/lifetracker-analysis/internal/baseline"
	"github.com/rhaversen/lifetracker-analysis/internal/likelihood"
)

// adamMoments tracks the first and second moment estimates for one target
// type's parameter block (its own baseline row plus its influence rows from
// every other source type).
type adamMoments struct {
	mBeta, vBeta [baseline.NumFeatures]float64
	mTheta       map[int][]float64
	vTheta       map[int][]float64
	step         int
}

func newAdamMoments(numBases int) *adamMoments {
	return &adamMoments{
		mTheta: make(map[int][]float64),
		vTheta: make(map[int][]float64),
	}
}

func (a *adamMoments) thetaMoments(s, numBases int) (m, v []float64) {
	m, ok := a.mTheta[s]
	if !ok {
		m = make([]float64, numBases)
		a.mTheta[s] = m
	}
	v, ok = a.vTheta[s]
	if !ok {
		v = make([]float64, numBases)
		a.vTheta[s] = v
	}
	return m, v
}

// adamUpdate applies one Adam step to betaRow and every theta row named in
// grad.Theta, in place. Non-finite gradient entries are treated as zero so a
// numerical degeneracy never propagates into the parameters (spec: clamp to
// 0 and continue).
func adamUpdate(betaRow []float64, thetaRows map[int][]float64, grad *likelihood.Gradient, moments *adamMoments, opts Options) {
	moments.step++
	t := float64(moments.step)
	biasCorr1 := 1 - math.Pow(opts.Beta1, t)
	biasCorr2 := 1 - math.Pow(opts.Beta2, t)

	step := func(param, m, v *float64, g float64) {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			g = 0
		}
		*m = opts.Beta1**m + (1-opts.Beta1)*g
		*v = opts.Beta2**v + (1-opts.Beta2)*g*g
		mHat := *m / biasCorr1
		vHat := *v / biasCorr2
		*param += opts.LearningRate * mHat / (math.Sqrt(vHat) + opts.Epsilon)
	}

	for j := range betaRow {
		step(&betaRow[j], &moments.mBeta[j], &moments.vBeta[j], grad.Beta[j])
	}

	for s, row := range thetaRows {
		g := grad.Theta[s]
		m, v := moments.thetaMoments(s, len(row))
		for b := range row {
			gb := 0.0
			if g != nil {
				gb = g[b]
			}
			step(&row[b], &m[b], &v[b], gb)
		}
	}
}
