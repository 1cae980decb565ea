// Package baseline computes the fixed 7-dimensional wall-clock feature vector
// that parameterizes each event type's baseline hour-of-day and day-of-week
// rhythm in the point-process GLM.
package baseline

import "math"

// NumFeatures is the fixed dimensionality of the baseline feature vector:
// [1, sin(h), cos(h), sin(2h), cos(2h), sin(dow), cos(dow)].
const NumFeatures = 7

// Features returns the baseline feature vector for the UTC instant timeMs
// (milliseconds since epoch). timeMs is float64 so quadrature sub-window
// ticks, which fall at non-integer millisecond offsets, can reuse it directly.
func Features(timeMs float64) [NumFeatures]float64 {
	h, d := HourOfDay(timeMs), DayOfWeek(timeMs)
	const twoPi = 2 * math.Pi
	return [NumFeatures]float64{
		1,
		math.Sin(twoPi * h / 24),
		math.Cos(twoPi * h / 24),
		math.Sin(2 * twoPi * h / 24),
		math.Cos(2 * twoPi * h / 24),
		math.Sin(twoPi * d / 7),
		math.Cos(twoPi * d / 7),
	}
}

// HourOfDay returns the UTC hour-with-fraction in [0, 24) for timeMs.
func HourOfDay(timeMs float64) float64 {
	msOfDay := math.Mod(timeMs, msPerDay)
	if msOfDay < 0 {
		msOfDay += msPerDay
	}
	return msOfDay / msPerHour
}

// DayOfWeek returns the UTC day-of-week in [0, 7), where the epoch
// (1970-01-01, a Thursday) maps to 4.
func DayOfWeek(timeMs float64) float64 {
	day := math.Floor(timeMs / msPerDay)
	dow := math.Mod(day+4, 7) // 1970-01-01 was a Thursday (index 4)
	if dow < 0 {
		dow += 7
	}
	return dow
}

const (
	msPerHour = 3_600_000
	msPerDay  = 24 * msPerHour
)
