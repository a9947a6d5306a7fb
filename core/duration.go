package core

import "math"

// Duration is a signed span of nanoseconds, the unit the timestamps carried
// by Event are counted in; the gap between two timestamps may be negative.
type Duration int64

// MaxDuration stands in for "effectively infinite". The original C++
// implementation saturates max_interval_duration at int32 max seconds plus
// 999999999 nanoseconds; since Duration is already a 64-bit nanosecond count
// here, the natural analogue is math.MaxInt64.
const MaxDuration Duration = math.MaxInt64

// AddDuration adds b to a, saturating at MaxDuration instead of overflowing.
// Both operands are assumed non-negative, which holds for every caller in
// this module (timestamps and configured bounds are never negative).
func AddDuration(a, b Duration) Duration {
	if a > MaxDuration-b {
		return MaxDuration
	}
	return a + b
}

// ScaleDuration computes d*(1+factor), saturating at MaxDuration; a
// non-positive d yields 0. factor is the age penalty, always >= 0, so the
// result is always >= d.
func ScaleDuration(d Duration, factor float64) Duration {
	if d <= 0 {
		return 0
	}
	scaled := float64(d) * (1 + factor)
	if scaled >= float64(MaxDuration) {
		return MaxDuration
	}
	return Duration(scaled)
}
