// Package coverage segments the observed timeline into actively-tracked
// periods and dormancy gaps, so the point-process fit is not penalized for
// the user simply not logging events during an absence.
package coverage

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
)

// RollingWindowDays is the half-width of the rolling-median baseline window
// (spec: days [i-30, i+30]).
const RollingWindowDays = 30

// MinGapDays is the minimum length, in days, for an inactive run to be
// classified as a gap rather than merged into the surrounding active period.
const MinGapDays = 14

// Result summarizes the coverage of a set of events over the calendar days
// they span.
type Result struct {
	TotalDays       int
	ActiveDays      int
	GapDays         int
	CoveragePercent float64
	Periods         []eventmodel.TrackingPeriod
}

// Analyze segments events into active/gap tracking periods. An empty input
// yields a zeroed Result.
func Analyze(events []eventmodel.Event) Result {
	if len(events) == 0 {
		return Result{}
	}

	firstDay, lastDay := dayRange(events)
	totalDays := int(lastDay-firstDay) + 1

	counts := dailyCounts(events, firstDay, totalDays)
	baselines := rollingMedianBaseline(counts)

	active := make([]bool, totalDays)
	for i, c := range counts {
		threshold := 0.1 * baselines[i]
		if threshold < 2 {
			threshold = 2
		}
		active[i] = float64(c) >= threshold
	}

	periods := buildPeriods(active, counts, firstDay)
	periods = mergeShortGaps(periods)

	var activeDays, gapDays int
	for _, p := range periods {
		if p.IsGap {
			gapDays += p.DayCount
		} else {
			activeDays += p.DayCount
		}
	}

	var coveragePct float64
	if totalDays > 0 {
		coveragePct = 100 * float64(activeDays) / float64(totalDays)
	}

	return Result{
		TotalDays:       totalDays,
		ActiveDays:      activeDays,
		GapDays:         gapDays,
		CoveragePercent: coveragePct,
		Periods:         periods,
	}
}

func dayRange(events []eventmodel.Event) (first, last int64) {
	first = dayIndex(events[0].TimeMs)
	last = first
	for _, e := range events[1:] {
		d := dayIndex(e.TimeMs)
		if d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last
}

func dayIndex(timeMs int64) int64 {
	const msPerDay = 24 * 3_600_000
	d := timeMs / msPerDay
	if timeMs%msPerDay < 0 {
		d--
	}
	return d
}

func dailyCounts(events []eventmodel.Event, firstDay int64, totalDays int) []int {
	counts := make([]int, totalDays)
	for _, e := range events {
		idx := dayIndex(e.TimeMs) - firstDay
		if idx >= 0 && int(idx) < totalDays {
			counts[idx]++
		}
	}
	return counts
}

// rollingMedianBaseline computes, for every day i, the median daily count
// over the window [i-RollingWindowDays, i+RollingWindowDays], clipped to the
// available range.
func rollingMedianBaseline(counts []int) []float64 {
	n := len(counts)
	baselines := make([]float64, n)
	window := make([]float64, 0, 2*RollingWindowDays+1)

	for i := 0; i < n; i++ {
		lo := i - RollingWindowDays
		if lo < 0 {
			lo = 0
		}
		hi := i + RollingWindowDays
		if hi >= n {
			hi = n - 1
		}

		window = window[:0]
		for j := lo; j <= hi; j++ {
			window = append(window, float64(counts[j]))
		}
		sort.Float64s(window)
		baselines[i] = stat.Quantile(0.5, stat.Empirical, window, nil)
	}
	return baselines
}

func buildPeriods(active []bool, counts []int, firstDay int64) []eventmodel.TrackingPeriod {
	var periods []eventmodel.TrackingPeriod
	n := len(active)
	if n == 0 {
		return periods
	}

	runStart := 0
	runIsGap := !active[0]
	for i := 1; i <= n; i++ {
		if i < n && !active[i] == runIsGap {
			continue
		}
		periods = append(periods, makePeriod(firstDay, runStart, i-1, runIsGap, counts))
		if i < n {
			runStart = i
			runIsGap = !active[i]
		}
	}
	return periods
}

func makePeriod(firstDay int64, startIdx, endIdx int, isGap bool, counts []int) eventmodel.TrackingPeriod {
	var eventCount int
	for i := startIdx; i <= endIdx; i++ {
		eventCount += counts[i]
	}
	return eventmodel.TrackingPeriod{
		StartDay:   firstDay + int64(startIdx),
		EndDay:     firstDay + int64(endIdx),
		DayCount:   endIdx - startIdx + 1,
		EventCount: eventCount,
		IsGap:      isGap,
	}
}

// mergeShortGaps repeatedly merges inactive runs shorter than MinGapDays into
// their surrounding active runs, and then merges any resulting adjacent
// periods that share an is-gap flag, until the period list is stable: no two
// adjacent periods share an is-gap flag, and every remaining gap period is at
// least MinGapDays long.
func mergeShortGaps(periods []eventmodel.TrackingPeriod) []eventmodel.TrackingPeriod {
	for {
		changed := false

		// Demote any gap shorter than MinGapDays to active.
		for i := range periods {
			if periods[i].IsGap && periods[i].DayCount < MinGapDays {
				periods[i].IsGap = false
				changed = true
			}
		}

		// Merge adjacent periods that now share an is-gap flag.
		merged := periods[:0:0]
		for _, p := range periods {
			if len(merged) > 0 && merged[len(merged)-1].IsGap == p.IsGap {
				last := &merged[len(merged)-1]
				last.EndDay = p.EndDay
				last.DayCount += p.DayCount
				last.EventCount += p.EventCount
				changed = true
				continue
			}
			merged = append(merged, p)
		}
		periods = merged

		if !changed {
			break
		}
	}
	return periods
}
