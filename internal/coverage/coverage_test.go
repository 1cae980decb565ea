package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
)

const msPerDay = 24 * 3_600_000

// activeDay appends enough events on day d to clear the active threshold
// max(2, 0.1*baseline) for a baseline around 3/day.
func activeDay(events []eventmodel.Event, day int64, typeName string) []eventmodel.Event {
	for i := 0; i < 3; i++ {
		events = append(events, eventmodel.Event{TypeName: typeName, TimeMs: day*msPerDay + int64(i)*3_600_000})
	}
	return events
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(nil)
	assert.Equal(t, Result{}, result)
}

func TestAnalyze_ClosureInvariant(t *testing.T) {
	// Property 3: activeDays + gapDays == totalDays, and period day counts
	// sum to totalDays, for any non-empty input.
	var events []eventmodel.Event
	for d := int64(0); d < 30; d++ {
		events = activeDay(events, d, "a")
	}
	for d := int64(50); d < 80; d++ {
		events = activeDay(events, d, "a")
	}

	result := Analyze(events)
	assert.Equal(t, result.TotalDays, result.ActiveDays+result.GapDays)

	var sum int
	for _, p := range result.Periods {
		sum += p.DayCount
	}
	assert.Equal(t, result.TotalDays, sum)
}

func TestAnalyze_NoAdjacentPeriodsShareIsGap(t *testing.T) {
	var events []eventmodel.Event
	for d := int64(0); d < 20; d++ {
		events = activeDay(events, d, "a")
	}
	for d := int64(40); d < 60; d++ {
		events = activeDay(events, d, "a")
	}

	result := Analyze(events)
	for i := 1; i < len(result.Periods); i++ {
		assert.NotEqual(t, result.Periods[i-1].IsGap, result.Periods[i].IsGap)
	}
}

func TestAnalyze_ShortGapIsMergedAway(t *testing.T) {
	// A gap shorter than MinGapDays must not survive as its own period.
	var events []eventmodel.Event
	for d := int64(0); d < 10; d++ {
		events = activeDay(events, d, "a")
	}
	// 5-day silent stretch (d=10..14), below the 14-day minimum.
	for d := int64(15); d < 25; d++ {
		events = activeDay(events, d, "a")
	}

	result := Analyze(events)
	for _, p := range result.Periods {
		assert.False(t, p.IsGap)
	}
	require.Len(t, result.Periods, 1)
}

func TestAnalyze_LongGapSurvives(t *testing.T) {
	var events []eventmodel.Event
	for d := int64(0); d < 10; d++ {
		events = activeDay(events, d, "a")
	}
	for d := int64(10 + MinGapDays + 5); d < 10+MinGapDays+15; d++ {
		events = activeDay(events, d, "a")
	}

	result := Analyze(events)
	var gapPeriods int
	for _, p := range result.Periods {
		if p.IsGap {
			gapPeriods++
			assert.GreaterOrEqual(t, p.DayCount, MinGapDays)
		}
	}
	assert.Equal(t, 1, gapPeriods)
}

func TestAnalyze_CoveragePercentBounds(t *testing.T) {
	var events []eventmodel.Event
	for d := int64(0); d < 100; d++ {
		events = activeDay(events, d, "a")
	}
	result := Analyze(events)
	assert.GreaterOrEqual(t, result.CoveragePercent, 0.0)
	assert.LessOrEqual(t, result.CoveragePercent, 100.0)
}
