package likelihood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhaversen/lifetracker-analysis/internal/eventmodel"
)

func TestBuildTicks_QuadraturePointsBeforeEventsAtSameInstant(t *testing.T) {
	windows := []eventmodel.ObservationWindow{{StartMs: 0, EndMs: int64(eventmodel.MsPerHour)}}
	stream := eventmodel.NewEventStream()
	stream.Intern("a")
	stream.Times = []float64{0}
	stream.TypeIdx = []int{0}

	ticks := BuildTicks(windows, stream, 4)
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0.0, ticks[0].TimeHours)
	assert.False(t, ticks[0].IsEvent, "a quadrature point at the same instant must sort before the event")
}

func TestBuildTicks_CoversEveryWindow(t *testing.T) {
	windows := []eventmodel.ObservationWindow{
		{StartMs: 0, EndMs: int64(eventmodel.MsPerHour)},
		{StartMs: 10 * int64(eventmodel.MsPerHour), EndMs: 12 * int64(eventmodel.MsPerHour)},
	}
	stream := eventmodel.NewEventStream()

	ticks := BuildTicks(windows, stream, 5)
	assert.Len(t, ticks, 10) // 5 quadrature points per window, no events

	for _, tick := range ticks {
		assert.False(t, tick.IsEvent)
		assert.Greater(t, tick.DtHours, 0.0)
	}
}

func TestBuildTicks_SortedNonDecreasing(t *testing.T) {
	windows := []eventmodel.ObservationWindow{{StartMs: 0, EndMs: 3 * int64(eventmodel.MsPerHour)}}
	stream := eventmodel.NewEventStream()
	stream.Intern("a")
	stream.Times = []float64{1.5 * eventmodel.MsPerHour, 0.5 * eventmodel.MsPerHour}
	stream.TypeIdx = []int{0, 0}

	ticks := BuildTicks(windows, stream, 6)
	for i := 1; i < len(ticks); i++ {
		assert.LessOrEqual(t, ticks[i-1].TimeHours, ticks[i].TimeHours)
	}
}
