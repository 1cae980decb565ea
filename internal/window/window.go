// Package window converts coverage periods into the half-open observation
// windows used for quadrature, merges windows that sit close enough together
// that splitting them buys nothing, and assembles the event stream that is
// actually fit against those windows.
package window

import (
	"sort"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
)

// MergeGapHours is the maximum gap between two consecutive active periods
// for which their windows are merged into one, rather than left as separate
// windows with a dormant interval between them.
const MergeGapHours = 6.0

// FromPeriods converts the non-gap periods in periods into observation
// windows expressed in milliseconds, mapping each day index to its UTC
// start-of-day timestamp (day index * MsPerDay). Adjacent or near-adjacent active periods
// (gap <= MergeGapHours) are merged into a single window.
func FromPeriods(periods []eventmodel.TrackingPeriod) []eventmodel.ObservationWindow {
	var windows []eventmodel.ObservationWindow
	for _, p := range periods {
		if p.IsGap {
			continue
		}
		windows = append(windows, eventmodel.ObservationWindow{
			StartMs: p.StartDay * int64(eventmodel.MsPerDay),
			EndMs:   (p.EndDay + 1) * int64(eventmodel.MsPerDay),
		})
	}
	return Merge(windows)
}

// Merge sorts windows by start time and merges any pair whose gap is at most
// MergeGapHours.
func Merge(windows []eventmodel.ObservationWindow) []eventmodel.ObservationWindow {
	if len(windows) == 0 {
		return nil
	}

	sorted := make([]eventmodel.ObservationWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMs < sorted[j].StartMs })

	mergeGapMs := int64(MergeGapHours * eventmodel.MsPerHour)

	merged := sorted[:1]
	for _, w := range sorted[1:] {
		last := &merged[len(merged)-1]
		if w.StartMs <= last.EndMs+mergeGapMs {
			if w.EndMs > last.EndMs {
				last.EndMs = w.EndMs
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// BuildEventStream filters events to those falling within some window,
// drops invalid (non-finite timestamp or empty type name) events, sorts the
// remainder by time, and interns their type names in first-seen order. Ties
// at equal timestamps keep their relative input order (stable sort), which
// is the deterministic tie-break the rest of the pipeline relies on.
func BuildEventStream(events []eventmodel.Event, windows []eventmodel.ObservationWindow) *eventmodel.EventStream {
	stream := eventmodel.NewEventStream()

	type indexed struct {
		event eventmodel.Event
		order int
	}

	var kept []indexed
	for i, e := range events {
		if !e.Valid() {
			continue
		}
		if !inAnyWindow(e.TimeMs, windows) {
			continue
		}
		kept = append(kept, indexed{event: e, order: i})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].event.TimeMs < kept[j].event.TimeMs
	})

	stream.Times = make([]float64, len(kept))
	stream.TypeIdx = make([]int, len(kept))
	for i, k := range kept {
		stream.Times[i] = float64(k.event.TimeMs)
		stream.TypeIdx[i] = stream.Intern(k.event.TypeName)
	}

	return stream
}

func inAnyWindow(timeMs int64, windows []eventmodel.ObservationWindow) bool {
	for _, w := range windows {
		if w.Contains(timeMs) {
			return true
		}
	}
	return false
}

// TotalObservedMs sums the length of every window.
func TotalObservedMs(windows []eventmodel.ObservationWindow) int64 {
	var total int64
	for _, w := range windows {
		total += w.LengthMs()
	}
	return total
}

// TotalObservedHours is TotalObservedMs expressed in fractional hours.
func TotalObservedHours(windows []eventmodel.ObservationWindow) float64 {
	return float64(TotalObservedMs(windows)) / eventmodel.MsPerHour
}
