package likelihood

import (
	"sort"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
)

// Tick is one point in the merged event/quadrature timeline that the
// likelihood (and diagnostics) walk in time order to advance recursive state
// and accumulate log-likelihood, gradients, or integrated intensity.
type Tick struct {
	TimeHours float64
	IsEvent   bool
	TypeIdx   int     // valid when IsEvent
	DtHours   float64 // valid when !IsEvent: the quadrature sub-interval width
}

// BuildTicks interleaves every event in stream with q quadrature
// left-endpoints per window, merged in non-decreasing time order. When an
// event and a quadrature point share an instant, the quadrature point sorts
// first so lambda is always evaluated from pre-event history.
func BuildTicks(windows []eventmodel.ObservationWindow, stream *eventmodel.EventStream, q int) []Tick {
	ticks := make([]Tick, 0, len(stream.Times)+len(windows)*q)

	for i, tMs := range stream.Times {
		ticks = append(ticks, Tick{
			TimeHours: tMs / eventmodel.MsPerHour,
			IsEvent:   true,
			TypeIdx:   stream.TypeIdx[i],
		})
	}

	for _, w := range windows {
		lengthHours := w.LengthHours()
		if lengthHours <= 0 || q <= 0 {
			continue
		}
		dt := lengthHours / float64(q)
		startHours := eventmodel.MsToHours(w.StartMs)
		for i := 0; i < q; i++ {
			ticks = append(ticks, Tick{
				TimeHours: startHours + dt*float64(i),
				IsEvent:   false,
				DtHours:   dt,
			})
		}
	}

	sort.SliceStable(ticks, func(i, j int) bool {
		if ticks[i].TimeHours != ticks[j].TimeHours {
			return ticks[i].TimeHours < ticks[j].TimeHours
		}
		// Quadrature points come before events at the same instant.
		return !ticks[i].IsEvent && ticks[j].IsEvent
	})

	return ticks
}
