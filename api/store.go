package api

import (
	"context"

	"github.com/krisalay/observable-cache/notify"
	"github.com/krisalay/observable-cache/types"
)

/*
Store defines the PUBLIC API of the observable cache.
This is a contract that guarantees certain behaviors, without exposing internals.
All of the details like (operation serialization, the single-flight guard, staleness policy, remote delegation, and notification fan-out)
are hidden behind this interface.
*/
type Store interface {

	/*
		Fetch replaces the cached items with the remote collection.

		BEHAVIOR:
		---------
		1. If a fetch is already in flight:
		   - Return the current snapshot immediately (single-flight guard)
		   - No remote call, no transition, no notification

		2. Otherwise:
		   - Transition to loading, clearing any prior error, and notify
		   - Call the remote list operation
		   - On success: replace items in remote order, record the
		     fetch time, transition to idle
		   - On failure: keep the last known-good items, record the
		     structured error and its message, transition to error

		Every transition notifies all observers with a fresh snapshot.
		The returned error mirrors the snapshot's error; it is never a
		panic and never bypasses the snapshot.
	*/
	Fetch(ctx context.Context) (types.Snapshot, error)

	/*
		Refresh forces the staleness window open (the last fetch time
		is cleared on the loading transition), then fetches. It still
		respects the single-flight guard.
	*/
	Refresh(ctx context.Context) (types.Snapshot, error)

	/*
		NeedsRefresh reports whether the cached data is stale.

		RETURN VALUES:
		--------------
		true  : never fetched, or the staleness threshold has elapsed
		        since the last successful fetch (default 5 minutes)
		false : fetched recently enough

		Pure function of state and current time. Does not mutate
		state, does not notify, does not call the remote.
	*/
	NeedsRefresh() bool

	/*
		Add creates the item remotely, then appends the canonical item
		returned by the remote to the end of the collection.

		The collection stays unique by id: a returned id that collides
		with an existing entry is an error, never a silent overwrite.
	*/
	Add(ctx context.Context, item types.Item) (types.Snapshot, error)

	/*
		Update replaces the item remotely, then folds the canonical
		result back in:
		- Existing id: replaced in place, order preserved
		- Unknown id: appended, not dropped
	*/
	Update(ctx context.Context, item types.Item) (types.Snapshot, error)

	/*
		Remove deletes the item remotely, then drops it locally if
		present.

		This operation is idempotent:
		- Removing a non-existing id is success, not an error
		- It still notifies, so it is unconditionally observable
	*/
	Remove(ctx context.Context, id string) (types.Snapshot, error)

	/*
		Search returns the items whose title or description contains
		the query, case-insensitively. An empty query returns the full
		collection.

		Pure and synchronous. The returned slice is fresh on every
		call; mutating it cannot affect the cache.
	*/
	Search(query string) []types.Item

	// SearchFunc is Search with an arbitrary predicate, under the
	// same purity rules.
	SearchFunc(match func(types.Item) bool) []types.Item

	// Get returns the cached item with the given id, if present.
	// Read-only; no notification, no remote call.
	Get(id string) (types.Item, bool)

	/*
		Clear resets the cache to empty, idle, never-fetched. It
		always notifies, even when already empty.
	*/
	Clear() (types.Snapshot, error)

	// Snapshot returns a copy of the current state that never aliases
	// the cache's internal storage.
	Snapshot() types.Snapshot

	/*
		Subscribe registers an observer to receive every snapshot
		published after registration.

		DELIVERY:
		---------
		- Synchronous, inside the operation that produced the state
		- Registration order, so deterministic within a process run
		- Each observer gets its own snapshot copy

		The returned subscription handle deregisters the observer.
		Unsubscribing twice is safe.
	*/
	Subscribe(obs types.Observer) *notify.Subscription

	/*
		Close shuts the cache down.

		BEHAVIOR:
		---------
		- Drops all observers
		- State-changing operations start returning an error
		- Reads keep serving the last snapshot

		WHEN TO CALL:
		-------------
		- Owning screen or session teardown
		- Tests cleanup
	*/
	Close()
}
