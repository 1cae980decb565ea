package eventmodel

// TrackingPeriod is a maximal run of calendar days sharing the same coverage
// classification (actively tracked vs. a dormancy gap), produced by the
// coverage analyzer.
type TrackingPeriod struct {
	StartDay   int64 // day index, UTC, inclusive
	EndDay     int64 // day index, UTC, inclusive
	DayCount   int
	EventCount int
	IsGap      bool
}

// ObservationWindow is a half-open time interval, in milliseconds, during which
// the user was considered to be actively tracking events.
type ObservationWindow struct {
	StartMs int64
	EndMs   int64
}

// LengthMs returns the window's duration in milliseconds.
func (w ObservationWindow) LengthMs() int64 {
	return w.EndMs - w.StartMs
}

// LengthHours returns the window's duration in fractional hours.
func (w ObservationWindow) LengthHours() float64 {
	return float64(w.LengthMs()) / MsPerHour
}

// Contains reports whether timeMs falls in the half-open interval [Start, End).
func (w ObservationWindow) Contains(timeMs int64) bool {
	return timeMs >= w.StartMs && timeMs < w.EndMs
}

// MsPerHour and MsPerDay convert between the wire unit (milliseconds) and the
// internal math unit (fractional hours) used throughout the core.
const (
	MsPerHour = 3_600_000.0
	MsPerDay  = 24 * MsPerHour
)

// HoursToMs converts fractional hours to milliseconds.
func HoursToMs(hours float64) int64 {
	return int64(hours * MsPerHour)
}

// MsToHours converts milliseconds to fractional hours.
func MsToHours(ms int64) float64 {
	return float64(ms) / MsPerHour
}
