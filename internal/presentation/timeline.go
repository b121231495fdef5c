package presentation

import "time"

// SlideAt returns the slide shown at elapsed into narration of length
// duration, with the n slides spread evenly. Out-of-range input clamps to
// the first or last slide.
func SlideAt(elapsed, duration time.Duration, n int) int {
	if n <= 1 || duration <= 0 || elapsed <= 0 {
		return 0
	}
	per := duration / time.Duration(n)
	if per <= 0 {
		return n - 1
	}
	return min(int(elapsed/per), n-1)
}
