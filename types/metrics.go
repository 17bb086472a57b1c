package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Fetch is called when a fetch completes successfully and the
	// items are replaced with the remote collection.
	Fetch()

	// FetchError is called when a fetch fails and the error is
	// recorded on the snapshot.
	FetchError()

	// Mutation is called when an add, update, remove or clear
	// completes successfully.
	Mutation()

	// MutationError is called when an add, update or remove fails.
	MutationError()

	// Notify is called once per published snapshot, regardless of
	// how many observers receive it.
	Notify()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache
to implement metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation
that simply ignores all metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Fetch()         {}
func (NoopMetrics) FetchError()    {}
func (NoopMetrics) Mutation()      {}
func (NoopMetrics) MutationError() {}
func (NoopMetrics) Notify()        {}
