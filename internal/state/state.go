// Package state maintains the per-source-type recursive impulse accumulator
// that lets the likelihood evaluate Sum_b theta_b * S[s][b] in O(1) per tick
// instead of replaying the full event history.
package state

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rhaversen/lifetracker-analysis/internal/basis"
)

// RecursiveState tracks, for every source event type, a running impulse sum
// per basis timescale under continuous exponential decay. It is scoped to a
// single likelihood pass and is not safe for concurrent use.
type RecursiveState struct {
	S             *mat.Dense // numTypes x numBases
	numBases      int
	lastTimeHours float64
}

// New allocates a zeroed recursive state for numTypes source types and
// numBases basis timescales, with an undefined (NaN) last-advance time so the
// first Advance call does not apply spurious decay.
func New(numTypes, numBases int) *RecursiveState {
	return &RecursiveState{
		S:             mat.NewDense(numTypes, numBases, nil),
		numBases:      numBases,
		lastTimeHours: math.NaN(),
	}
}

// NumBases returns the configured number of basis timescales.
func (rs *RecursiveState) NumBases() int {
	return rs.numBases
}

// LastTimeHours returns the time (in hours) the state was last advanced to.
func (rs *RecursiveState) LastTimeHours() float64 {
	return rs.lastTimeHours
}

// Advance moves the state forward to tHours, applying decay-only updates to
// every component. If the state's current time is non-finite (the initial
// state), the clock is simply set to tHours without decaying anything.
// tHours must be >= the current last-advance time.
func (rs *RecursiveState) Advance(tHours float64) {
	if math.IsNaN(rs.lastTimeHours) || math.IsInf(rs.lastTimeHours, 0) {
		rs.lastTimeHours = tHours
		return
	}
	dh := tHours - rs.lastTimeHours
	if dh < 0 {
		dh = 0
	}
	if dh > 0 {
		numTypes, numBases := rs.S.Dims()
		for s := 0; s < numTypes; s++ {
			row := rs.S.RawRowView(s)
			for b := 0; b < numBases; b++ {
				row[b] *= basis.Decay(b, dh)
			}
		}
	}
	rs.lastTimeHours = tHours
}

// Increment adds 1 to every basis component of source type s's row, modeling
// the arrival of one event of that type. Every basis shares the same
// per-event impulse; only the decay timescale differs.
func (rs *RecursiveState) Increment(s int) {
	row := rs.S.RawRowView(s)
	for b := range row {
		row[b]++
	}
}

// Value returns S[s][b], the current (already-decayed) impulse accumulator.
func (rs *RecursiveState) Value(s, b int) float64 {
	return rs.S.At(s, b)
}

// Row returns the raw backing slice for source type s's basis row. Callers
// must not retain it across a call that changes rs's dimensions.
func (rs *RecursiveState) Row(s int) []float64 {
	return rs.S.RawRowView(s)
}

// Clone returns a deep copy of rs, used by tests that need a reproducible
// snapshot before mutating state further.
func (rs *RecursiveState) Clone() *RecursiveState {
	numTypes, numBases := rs.S.Dims()
	out := New(numTypes, numBases)
	out.S.Copy(rs.S)
	out.lastTimeHours = rs.lastTimeHours
	return out
}
