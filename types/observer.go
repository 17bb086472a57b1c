package types

/*
Observer is the contract between the cache and its subscribers.

If an observer is registered, it will be called with a fresh Snapshot
after every state transition, in the same call frame that produced the
new state.

This gives consumers a chance to:
- Re-render a UI from the new snapshot
- Mirror state into another store
- Record transitions for debugging

The cache does NOT care what the observer does.
It just calls Notify and moves on.
*/
type Observer interface {

	/*
		Notify is called after every state transition.
		This method MUST be fast and non blocking because it runs inside
		the operation that produced the transition. Blocking here would
		stall every cache operation behind it.

		Observers MUST NOT call back into the cache's mutating
		operations from Notify; doing so would deadlock the
		operation queue.
	*/
	Notify(Snapshot)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Notify(s Snapshot) { f(s) }
