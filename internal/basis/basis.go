// Package basis implements the fixed family of exponential-decay kernels that
// parameterize the influence curves of the point-process GLM. The exponential
// form is load-bearing: it is what lets the recursive state (internal/state)
// maintain Sum_b theta_b * S[s][b] in O(1) per event instead of replaying full
// history.
package basis

import "math"

// MaxBases is the number of fixed timescales the model family defines.
const MaxBases = 9

// DefaultBases is the number of bases used unless the caller overrides it
// (spec default: up to 1 day of influence).
const DefaultBases = 6

// Taus holds the fixed decay timescales, in hours, from 5 minutes to 21 days.
// Index order matches the spec's tau family and must not be reordered: callers
// slice Taus[:B] to select a model with B <= MaxBases bases.
var Taus = [MaxBases]float64{
	5.0 / 60.0, // 5 minutes
	15.0 / 60.0,
	1,
	4,
	12,
	24,
	72,
	168,
	504, // 21 days
}

// Tau returns the b-th basis timescale in hours.
func Tau(b int) float64 {
	return Taus[b]
}

// Kernel evaluates the basis-b kernel exp(-dh/tau_b) at lag dh (hours).
// Non-positive lags carry no influence: the effect of an event can never
// precede it.
func Kernel(b int, dh float64) float64 {
	if dh <= 0 {
		return 0
	}
	return math.Exp(-dh / Taus[b])
}

// Decay returns exp(-dh/tau_b), the multiplicative state-decay factor over an
// elapsed interval dh (hours). Unlike Kernel, Decay is used for advancing
// state over elapsed time and is valid for dh == 0 (returns 1).
func Decay(b int, dh float64) float64 {
	return math.Exp(-dh / Taus[b])
}

// Curve evaluates g(dh) = Sum_b w[b] * Kernel(b, dh) for a weight row w of
// length B <= MaxBases.
func Curve(w []float64, dh float64) float64 {
	var g float64
	for b, wb := range w {
		g += wb * Kernel(b, dh)
	}
	return g
}

const (
	peakGridPoints = 200
	peakGridMinH   = 5.0 / 60.0
	peakGridMaxH   = 168.0

	massGridPoints = 500
	massGridMinH   = 1.0 / 60.0
	massGridMaxH   = 168.0

	integratedHorizonH = 168.0
)

// logspace returns n points log-uniformly spaced in [lo, hi].
func logspace(lo, hi float64, n int) []float64 {
	pts := make([]float64, n)
	if n == 1 {
		pts[0] = lo
		return pts
	}
	logLo, logHi := math.Log(lo), math.Log(hi)
	step := (logHi - logLo) / float64(n-1)
	for i := 0; i < n; i++ {
		pts[i] = math.Exp(logLo + step*float64(i))
	}
	return pts
}

// PeakLag sweeps a 200-point logarithmic grid over [5min, 168h] and returns
// the lag (in milliseconds) and value of g at the point of maximum |g|.
func PeakLag(w []float64) (peakLagMs int64, peakValue float64) {
	grid := logspace(peakGridMinH, peakGridMaxH, peakGridPoints)
	bestAbs := -1.0
	var bestH, bestG float64
	for _, h := range grid {
		g := Curve(w, h)
		if a := math.Abs(g); a > bestAbs {
			bestAbs = a
			bestH = h
			bestG = g
		}
	}
	return int64(bestH * 3_600_000.0), bestG
}

// MassTime integrates |g| over a 500-point logarithmic grid from 1 minute to
// 168 hours and returns, in milliseconds, the first lag whose cumulative
// absolute mass reaches 50% of the total absolute integral. Returns 0 if the
// total absolute integral is below 1e-10.
func MassTime(w []float64) int64 {
	grid := logspace(massGridMinH, massGridMaxH, massGridPoints)
	vals := make([]float64, len(grid))
	for i, h := range grid {
		vals[i] = math.Abs(Curve(w, h))
	}

	// Trapezoidal cumulative integral over the (non-uniform, log-spaced) grid.
	cum := make([]float64, len(grid))
	var total float64
	for i := 1; i < len(grid); i++ {
		segment := 0.5 * (vals[i] + vals[i-1]) * (grid[i] - grid[i-1])
		total += segment
		cum[i] = total
	}

	if total < 1e-10 {
		return 0
	}

	half := total / 2
	for i, c := range cum {
		if c >= half {
			return int64(grid[i] * 3_600_000.0)
		}
	}
	return int64(grid[len(grid)-1] * 3_600_000.0)
}

// IntegratedEffect returns the closed-form integral of g over [0, 168h]:
// Sum_b w[b] * tau_b * (1 - exp(-168/tau_b)).
func IntegratedEffect(w []float64) float64 {
	var total float64
	for b, wb := range w {
		tau := Taus[b]
		total += wb * tau * (1 - math.Exp(-integratedHorizonH/tau))
	}
	return total
}
