package likelihood

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
	"github.com/rhaversen/lifetracker-analysis/internal/state"
)

func TestClampEta_Bounds(t *testing.T) {
	assert.Equal(t, 20.0, clampEta(1000))
	assert.Equal(t, -20.0, clampEta(-1000))
	assert.Equal(t, 3.0, clampEta(3))
}

func TestEta_InterceptOnly(t *testing.T) {
	params := glmparams.New(1, 1)
	params.Beta.Set(0, 0, 2.5)
	rs := state.New(1, 1)

	eta := Eta(params, 0, 0, rs)
	assert.InDelta(t, 2.5, eta, 1e-9)
}

func TestEta_IncludesCrossTypeInfluence(t *testing.T) {
	params := glmparams.New(2, 1)
	params.ThetaRow(0, 1)[0] = 1.5

	rs := state.New(2, 1)
	rs.Advance(0)
	rs.Increment(1)

	eta := Eta(params, 0, 0, rs)
	assert.InDelta(t, 1.5, eta, 1e-9)
}

func TestIntensity_IsExpOfClampedEta(t *testing.T) {
	params := glmparams.New(1, 1)
	params.Beta.Set(0, 0, 100) // would overflow without clamping
	rs := state.New(1, 1)

	got := Intensity(params, 0, 0, rs)
	assert.InDelta(t, math.Exp(20), got, 1e-6)
}
