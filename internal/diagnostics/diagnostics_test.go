package diagnostics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
	"github.com/rhaversen/lifetracker-analysis/internal/glmparams"
)

func TestEvaluate_FewerThanMinEvents_FallsBackToFailingKS(t *testing.T) {
	windows := []eventmodel.ObservationWindow{{StartMs: 0, EndMs: int64(eventmodel.MsPerHour)}}
	stream := eventmodel.NewEventStream()
	stream.Intern("a")
	stream.Times = []float64{0, 100, 200} // only 3 events, below MinEventsForKS
	stream.TypeIdx = []int{0, 0, 0}

	params := glmparams.New(1, 6)
	result := Evaluate(windows, stream, 0, params)

	assert.Equal(t, 1.0, result.KSStatistic)
	assert.False(t, result.PassesAt05)
}

func TestKolmogorovSmirnov_PerfectExponentialFitIsSmall(t *testing.T) {
	// Quantiles of Exponential(1) at evenly spaced probabilities should
	// produce a tiny KS statistic against the very distribution they were
	// drawn from.
	n := 200
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		p := (float64(i) + 0.5) / float64(n)
		samples[i] = -math.Log(1 - p)
	}
	ks := kolmogorovSmirnov(samples)
	assert.Less(t, ks, 0.05)
}

func TestKolmogorovSmirnov_SystematicallyShortSamplesFailLarge(t *testing.T) {
	n := 100
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.01 // all samples near zero: very far from Exponential(1)
	}
	ks := kolmogorovSmirnov(samples)
	assert.Greater(t, ks, 0.5)
}

func TestCountOfType(t *testing.T) {
	stream := eventmodel.NewEventStream()
	stream.Intern("a")
	stream.Intern("b")
	stream.TypeIdx = []int{0, 1, 0, 0}
	assert.Equal(t, 3, countOfType(stream, 0))
	assert.Equal(t, 1, countOfType(stream, 1))
}

func TestIntegratedIntensities_SimultaneousTargetEventsCloseZeroLengthIntervals(t *testing.T) {
	// Three events of the target type sharing one instant must close two
	// zero-duration intervals, regardless of how the tick loop orders their
	// state increments relative to each other.
	windows := []eventmodel.ObservationWindow{{StartMs: 0, EndMs: 1000}}
	stream := eventmodel.NewEventStream()
	stream.Intern("a")
	stream.Times = []float64{500, 500, 500}
	stream.TypeIdx = []int{0, 0, 0}

	params := glmparams.New(1, 6)
	lambdas := integratedIntensities(windows, stream, 0, params, 1)

	require.Len(t, lambdas, 2)
	for _, l := range lambdas {
		assert.InDelta(t, 0.0, l, 1e-12)
	}
}

func TestEvaluate_PassAt05ThresholdFormula(t *testing.T) {
	n := 16
	require.InDelta(t, 1.36/4, 1.36/math.Sqrt(float64(n)), 1e-9)
}
