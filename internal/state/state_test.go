package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhaversen/lifetracker-analysis/internal/basis"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRecursiveState_FirstAdvanceDoesNotDecay(t *testing.T) {
	rs := New(2, 3)
	rs.Increment(0)
	rs.Advance(100) // first advance just sets the clock

	for b := 0; b < 3; b++ {
		assert.Equal(t, 1.0, rs.Value(0, b))
	}
}

func TestRecursiveState_DecaysBetweenAdvances(t *testing.T) {
	rs := New(1, 1)
	rs.Advance(0)
	rs.Increment(0)
	rs.Advance(basis.Tau(0))

	want := math.Exp(-1)
	require.True(t, almostEqual(rs.Value(0, 0), want, 1e-9))
}

func TestRecursiveState_EquivalenceToNaiveSum(t *testing.T) {
	// Property 5: the recursively maintained S_b(t2) equals the naive sum
	// of exp(-(t2-t_e)/tau_b) over every event e of type s with t_e <= t2.
	b := 2
	tau := basis.Tau(b)
	eventTimes := []float64{0, 2, 5, 9.5}

	rs := New(1, basis.MaxBases)
	for _, te := range eventTimes {
		rs.Advance(te)
		rs.Increment(0)
	}
	t2 := 20.0
	rs.Advance(t2)

	var naive float64
	for _, te := range eventTimes {
		naive += math.Exp(-(t2 - te) / tau)
	}

	relErr := math.Abs(rs.Value(0, b)-naive) / naive
	assert.Less(t, relErr, 1e-9)
}

func TestRecursiveState_Clone_IsIndependent(t *testing.T) {
	rs := New(1, 1)
	rs.Advance(0)
	rs.Increment(0)

	clone := rs.Clone()
	rs.Advance(basis.Tau(0))
	rs.Increment(0)

	assert.NotEqual(t, rs.Value(0, 0), clone.Value(0, 0))
}

func TestRecursiveState_NegativeDeltaClampedToZero(t *testing.T) {
	rs := New(1, 1)
	rs.Advance(10)
	rs.Increment(0)
	before := rs.Value(0, 0)

	rs.Advance(5) // out-of-order advance must not apply negative decay
	assert.Equal(t, before, rs.Value(0, 0))
}
