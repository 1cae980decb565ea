package glmparams

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllocatesZeroedMatrices(t *testing.T) {
	p := New(3, 6)
	require.Equal(t, 3, p.NumTypes)
	require.Equal(t, 6, p.NumBases)

	r, c := p.Beta.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 7, c) // baseline.NumFeatures

	require.Len(t, p.Theta, 3)
	for _, theta := range p.Theta {
		tr, tc := theta.Dims()
		assert.Equal(t, 3, tr)
		assert.Equal(t, 6, tc)
	}
}

func TestClone_IsDeepCopy(t *testing.T) {
	p := New(2, 4)
	p.Beta.Set(0, 0, 5)
	p.Theta[0].Set(1, 0, 9)

	clone := p.Clone()
	p.Beta.Set(0, 0, -5)
	p.Theta[0].Set(1, 0, -9)

	assert.Equal(t, 5.0, clone.Beta.At(0, 0))
	assert.Equal(t, 9.0, clone.Theta[0].At(1, 0))
}

func TestClampTarget_LimitsMagnitude(t *testing.T) {
	p := New(2, 2)
	p.Beta.Set(0, 0, 1000)
	p.Theta[0].Set(1, 0, -1000)

	p.ClampTarget(0)

	assert.Equal(t, float64(ClampLimit), p.Beta.At(0, 0))
	assert.Equal(t, float64(-ClampLimit), p.Theta[0].At(1, 0))
}

func TestClampTarget_ResetsNonFinite(t *testing.T) {
	p := New(2, 2)
	p.Beta.Set(0, 1, math.NaN())
	p.Beta.Set(0, 2%2, math.Inf(1))

	p.ClampTarget(0)

	assert.Equal(t, 0.0, p.Beta.At(0, 1))
}

func TestClampTarget_LeavesOtherTargetsUntouched(t *testing.T) {
	p := New(2, 2)
	p.Beta.Set(1, 0, 1000)

	p.ClampTarget(0)

	assert.Equal(t, 1000.0, p.Beta.At(1, 0))
}

func TestThetaRow_ReturnsLiveView(t *testing.T) {
	p := New(2, 3)
	row := p.ThetaRow(0, 1)
	row[0] = 42
	assert.Equal(t, 42.0, p.Theta[0].At(1, 0))
}

func TestFullModelFit_Eligible(t *testing.T) {
	f := &FullModelFit{Results: map[int]*FitResult{1: {TypeIndex: 1}}}
	assert.True(t, f.Eligible(1))
	assert.False(t, f.Eligible(0))

	var nilFit *FullModelFit
	assert.False(t, nilFit.Eligible(0))
}
