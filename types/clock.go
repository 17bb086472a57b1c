package types

import "time"

// Clock abstracts wall-clock time so staleness decisions can be tested
// with simulated time instead of sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
