package staleness

import "time"

/*
FixedWindow implements the most common staleness rule: data is fresh for
a fixed duration after a successful fetch and stale afterwards. Reads do
NOT extend the window; only a successful fetch resets it.
*/
type FixedWindow struct {

	// Threshold defines how long fetched data remains fresh.
	// A zero Threshold falls back to DefaultThreshold.
	Threshold time.Duration
}

// IsStale reports whether the window has elapsed since lastFetch.
// Data that has never been fetched is always stale.
func (w FixedWindow) IsStale(lastFetch, now time.Time) bool {
	if lastFetch.IsZero() {
		return true
	}
	threshold := w.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return now.Sub(lastFetch) > threshold
}
