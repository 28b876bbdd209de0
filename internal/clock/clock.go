// Package clock implements the time-control arithmetic for game clocks.
// Only the side to move is ever charged; the increment is credited after
// the deduction, and a clock can never go below zero before the credit.
package clock

import "time"

// Advance charges elapsed seconds against remaining and credits the
// increment: max(0, remaining-elapsed) + increment.
func Advance(remaining, elapsed, increment float64) float64 {
	left := remaining - elapsed
	if left < 0 {
		left = 0
	}
	return left + increment
}

// Expired reports whether a clock value means the side has run out of
// time. The check runs on the post-Advance value, increment included,
// so a flag can only fall in games with no increment.
func Expired(remaining float64) bool {
	return remaining <= 0
}

// Elapsed returns the non-negative wall-clock seconds between the last
// accepted move and now. The server clock is treated as monotonic; a
// skew that would make the difference negative is clamped to zero.
func Elapsed(lastMove, now time.Time) float64 {
	d := now.Sub(lastMove).Seconds()
	if d < 0 {
		return 0
	}
	return d
}
