package notify

import (
	"sync"

	"github.com/krisalay/observable-cache/types"
)

/*
This file defines the notification plumbing between the cache and its
observers.

Instead of having observers poll the cache, the cache publishes every
new snapshot to a Notifier, and the Notifier fans it out:
- Delivery is synchronous, inside the operation that produced the state
- Delivery order is registration order, so it is deterministic
- Each observer gets its own snapshot copy, so observers cannot
  interfere with each other or with the cache
*/

// Notifier owns the ordered observer registry and fans published
// snapshots out to it.
type Notifier struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry

	// metrics is never nil; see NewNotifier.
	metrics types.Metrics
}

// entry pairs an observer with the registration token used to remove it.
type entry struct {
	id  uint64
	obs types.Observer
}

// Subscription is the handle returned by Subscribe. Unsubscribing twice
// is safe and does nothing the second time.
type Subscription struct {
	once     sync.Once
	notifier *Notifier
	id       uint64
}

// Unsubscribe removes the observer from the notifier. After it returns,
// the observer receives no further snapshots.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.notifier.remove(s.id)
	})
}

func NewNotifier(metrics types.Metrics) *Notifier {
	// Ensure metrics is always non-nil
	// This avoids defensive nil checks throughout the codebase
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	return &Notifier{metrics: metrics}
}

/*
Subscribe registers an observer and returns its subscription handle.
The observer is notified of every snapshot published AFTER registration;
there is no replay of earlier state. Callers wanting the current state
read it from the cache directly.
*/
func (n *Notifier) Subscribe(obs types.Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, obs: obs})
	return &Subscription{notifier: n, id: n.nextID}
}

/*
Publish delivers the snapshot to every registered observer, in
registration order, synchronously. Each observer receives its own deep
copy so none of them can alias the cache's storage or each other's view.
*/
func (n *Notifier) Publish(snap types.Snapshot) {
	n.mu.Lock()
	observers := make([]types.Observer, len(n.entries))
	for i, e := range n.entries {
		observers[i] = e.obs
	}
	n.mu.Unlock()

	n.metrics.Notify()
	for _, obs := range observers {
		obs.Notify(snap.Clone())
	}
}

// Len returns how many observers are registered.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// Close removes all observers. Subsequent publishes reach nobody.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = nil
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}
