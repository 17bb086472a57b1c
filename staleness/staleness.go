// This file defines how the cache decides its data is too old.

package staleness

import "time"

// DefaultThreshold is the staleness window used when no policy is
// configured explicitly.
const DefaultThreshold = 5 * time.Minute

/*
Policy is the interface that all staleness rules must follow. Instead of
hard-coding the decision into the cache, we define a policy so the
behavior can be swapped easily.

A Policy is a pure function of the last fetch time and the current
time. It never mutates state and never notifies anyone.
*/
type Policy interface {

	// IsStale reports whether data fetched at lastFetch is considered
	// outdated at now. A zero lastFetch means no fetch has ever
	// succeeded and MUST be treated as stale.
	IsStale(lastFetch, now time.Time) bool
}
