package state

import (
	"sync/atomic"

	"github.com/krisalay/observable-cache/types"
)

/*
This file defines how the cache's state is actually held.

- Reads should be very fast
- Reads should NOT require locks
- Writes are serialized by the cache and can afford extra work

To achieve this, we use a technique called: "Copy-On-Write" (COW)

- Readers always see an immutable snapshot
- The single writer builds a NEW snapshot
- The new snapshot replaces the old one atomically

This gives us:
--------------
- Lock-free reads for Search, Get, NeedsRefresh and Snapshot
- A trivially correct "observers never alias internals" guarantee
*/

// Store holds the current snapshot behind an atomic pointer.
// There must be at most one writer at a time; the cache guarantees
// this by serializing mutating operations.
type Store struct {
	snap atomic.Pointer[types.Snapshot]
}

// NewStore creates a store holding the empty initial snapshot:
// no items, idle, never fetched.
func NewStore() *Store {
	s := &Store{}
	initial := &types.Snapshot{
		Items:  make([]types.Item, 0),
		Status: types.StatusIdle,
	}
	s.snap.Store(initial)
	return s
}

// Load returns the current snapshot. The returned value must be treated
// as immutable; builders copy the Items slice before changing it.
func (s *Store) Load() types.Snapshot {
	return *s.snap.Load()
}

// Replace atomically swaps in the new snapshot.
func (s *Store) Replace(snap types.Snapshot) {
	s.snap.Store(&snap)
}
