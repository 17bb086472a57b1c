package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/observable-cache/api"
	"github.com/krisalay/observable-cache/engine"
	"github.com/krisalay/observable-cache/notify"
	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/state"
	"github.com/krisalay/observable-cache/types"
)

/*
ObservableCache is the main cache implementation.
This struct is the orchestrator that connects:
- the snapshot store
- the policy engine (staleness, remote delegation, metrics, logging)
- the notifier

Concurrency model
-----------------
Every state-changing operation (fetch, add, update, remove, clear) is
serialized end to end behind one operation mutex, remote call included.
Two consequences fall out of that:
- Mutations issued while another operation is in flight queue up in
  order instead of silently interleaving
- An older fetch can never overwrite the result of a newer one, so no
  cancellation token is needed; context cancellation surfaces as an
  ordinary failure

Fetch gets one extra rule: a Fetch issued while another fetch is in
flight returns the current snapshot immediately, without queuing and
without touching the remote. Racing first callers that slip past that
check are collapsed into a single remote call by singleflight.

Reads (Snapshot, Search, Get, NeedsRefresh) are lock-free: they load
the current immutable snapshot atomically and never block behind an
in-flight operation.
*/
type ObservableCache struct {
	// engine contains the "rules" of the cache: staleness, remote
	// delegation, metrics, logging.
	engine *engine.Engine

	// store holds the current immutable snapshot.
	store *state.Store

	// notifier fans new snapshots out to observers in registration order.
	notifier *notify.Notifier

	// opMu serializes all state-changing operations, fetch included.
	opMu sync.Mutex

	// fetching is the single-flight guard: true while a fetch holds
	// (or is queued for) the operation mutex.
	fetching atomic.Bool

	// flight collapses racing fetch callers into one remote call.
	flight singleflight.Group

	closed atomic.Bool
	logger zerolog.Logger
}

var _ api.Store = (*ObservableCache)(nil)

// New constructs a cache around the given data source. The source is
// the only required dependency; everything else has defaults and is
// configured through options.
func New(source remote.DataSource, opts ...Option) *ObservableCache {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger.With().Str("component", "observable_cache").Logger()

	return &ObservableCache{
		engine:   engine.NewEngine(source, cfg.staleness, cfg.clock, cfg.metrics, logger),
		store:    state.NewStore(),
		notifier: notify.NewNotifier(cfg.metrics),
		logger:   logger,
	}
}

//
// ================= FETCHING =================
//

/*
Fetch replaces the cached items with the remote collection.

BEHAVIOR:
---------
1. If a fetch is already in flight:
   - Return the current snapshot immediately, no side effects

2. Otherwise:
   - Transition to loading (clearing any prior error) and notify
   - Call the data source's list operation
   - On success: replace items, record the fetch time, go idle
   - On failure: keep items, record the error, go to the error state

The returned error, when non-nil, is the same structured error recorded
on the snapshot. Failures never panic or escape any other way.
*/
func (c *ObservableCache) Fetch(ctx context.Context) (types.Snapshot, error) {
	return c.fetch(ctx, false)
}

/*
Refresh is Fetch with the staleness window forced open: the last fetch
time is cleared on the loading transition, so the data reads as stale
until the fetch completes. It still respects the single-flight guard.
*/
func (c *ObservableCache) Refresh(ctx context.Context) (types.Snapshot, error) {
	return c.fetch(ctx, true)
}

func (c *ObservableCache) fetch(ctx context.Context, force bool) (types.Snapshot, error) {
	if c.closed.Load() {
		return c.Snapshot(), ErrClosed
	}

	// Single-flight guard: a fetch already in flight means this call
	// returns immediately without side effects.
	if c.fetching.Load() {
		return c.Snapshot(), nil
	}

	// Racing callers that both saw fetching == false share one flight.
	v, err, _ := c.flight.Do("fetch", func() (any, error) {
		snap, fetchErr := c.runFetch(ctx, force)
		return snap, fetchErr
	})
	return v.(types.Snapshot), err
}

func (c *ObservableCache) runFetch(ctx context.Context, force bool) (types.Snapshot, error) {
	c.fetching.Store(true)
	defer c.fetching.Store(false)

	c.opMu.Lock()
	defer c.opMu.Unlock()

	loading := c.store.Load()
	loading.Status = types.StatusLoading
	loading.Err = nil
	loading.ErrorMessage = ""
	if force {
		loading.LastFetchTime = time.Time{}
	}
	c.publish(loading)

	items, err := c.engine.List(ctx)
	if err != nil {
		c.engine.Metrics.FetchError()
		return c.publishError(err), err
	}

	next := c.store.Load()
	next.Items = dedupe(items, c.logger)
	next.Status = types.StatusIdle
	next.LastFetchTime = c.engine.Clock.Now()
	c.engine.Metrics.Fetch()
	c.publish(next)
	return next, nil
}

/*
NeedsRefresh reports whether the cached data is stale: never fetched,
or fetched longer ago than the staleness threshold. Pure read; no state
change, no notification, no remote call.
*/
func (c *ObservableCache) NeedsRefresh() bool {
	return c.engine.NeedsRefresh(c.store.Load().LastFetchTime)
}

//
// ================= MUTATIONS =================
//

/*
Add creates the item remotely and appends the canonical item the source
returns to the end of the cached collection.

If the returned id collides with an existing entry, that is a contract
violation of the data source and surfaces as ErrIDConflict, never as a
silent overwrite.
*/
func (c *ObservableCache) Add(ctx context.Context, item types.Item) (types.Snapshot, error) {
	if c.closed.Load() {
		return c.Snapshot(), ErrClosed
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.beginMutation()

	created, err := c.engine.Create(ctx, item)
	if err != nil {
		return c.failMutation(err), err
	}

	cur := c.store.Load()
	if cur.IndexOf(created.ID) >= 0 {
		err := ErrIDConflict.Wrapf("id %q", created.ID)
		return c.failMutation(err), err
	}

	next := cur
	next.Items = append(copyItems(cur.Items), created)
	return c.finishMutation(next), nil
}

/*
Update replaces the remote item and folds the canonical result back
into the cached collection:
- If an entry with the same id exists, it is replaced IN PLACE, so the
  collection keeps its order
- If no entry with that id exists, the result is appended rather than
  silently dropped
*/
func (c *ObservableCache) Update(ctx context.Context, item types.Item) (types.Snapshot, error) {
	if c.closed.Load() {
		return c.Snapshot(), ErrClosed
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.beginMutation()

	updated, err := c.engine.Update(ctx, item)
	if err != nil {
		return c.failMutation(err), err
	}

	cur := c.store.Load()
	next := cur
	next.Items = copyItems(cur.Items)
	if idx := cur.IndexOf(updated.ID); idx >= 0 {
		next.Items[idx] = updated
	} else {
		next.Items = append(next.Items, updated)
	}
	return c.finishMutation(next), nil
}

/*
Remove deletes the item remotely, then drops it from the cached
collection if present. Removing an id the cache does not hold is NOT an
error; the operation still notifies, so remove is unconditionally
observable and idempotent.
*/
func (c *ObservableCache) Remove(ctx context.Context, id string) (types.Snapshot, error) {
	if c.closed.Load() {
		return c.Snapshot(), ErrClosed
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.beginMutation()

	if err := c.engine.Delete(ctx, id); err != nil {
		return c.failMutation(err), err
	}

	cur := c.store.Load()
	next := cur
	if idx := cur.IndexOf(id); idx >= 0 {
		items := copyItems(cur.Items)
		next.Items = append(items[:idx], items[idx+1:]...)
	}
	return c.finishMutation(next), nil
}

/*
Clear resets the cache to its initial state: no items, idle, no error,
never fetched. It always notifies, even when the cache is already
empty, so clear is unconditionally observable.
*/
func (c *ObservableCache) Clear() (types.Snapshot, error) {
	if c.closed.Load() {
		return c.Snapshot(), ErrClosed
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	next := types.Snapshot{
		Items:  make([]types.Item, 0),
		Status: types.StatusIdle,
	}
	c.engine.Metrics.Mutation()
	c.publish(next)
	return next, nil
}

//
// ================= READS =================
//

// Snapshot returns a copy of the current state. The copy never aliases
// the cache's internal storage.
func (c *ObservableCache) Snapshot() types.Snapshot {
	return c.store.Load().Clone()
}

/*
Search returns the items whose title or description contains the query,
case-insensitively. An empty query returns the full collection.

Pure, synchronous, read-only: no state change, no notification, no
remote call. The returned slice is fresh on every call, so mutating it
cannot affect the cache.
*/
func (c *ObservableCache) Search(query string) []types.Item {
	return c.SearchFunc(func(it types.Item) bool {
		return it.Matches(query)
	})
}

// SearchFunc is Search with an arbitrary predicate.
func (c *ObservableCache) SearchFunc(match func(types.Item) bool) []types.Item {
	snap := c.store.Load()
	out := make([]types.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Get returns the cached item with the given id, if present. Read-only;
// no notification, no remote call.
func (c *ObservableCache) Get(id string) (types.Item, bool) {
	snap := c.store.Load()
	if idx := snap.IndexOf(id); idx >= 0 {
		return snap.Items[idx], true
	}
	return types.Item{}, false
}

//
// ================= SUBSCRIPTIONS =================
//

/*
Subscribe registers an observer to receive every snapshot published
after registration, synchronously, in registration order. The returned
subscription handle deregisters it; unsubscribing twice is safe.
*/
func (c *ObservableCache) Subscribe(obs types.Observer) *notify.Subscription {
	return c.notifier.Subscribe(obs)
}

/*
Close shuts the cache down: observers are dropped and state-changing
operations begin returning ErrClosed. Reads keep working against the
last snapshot. Closing twice is safe.
*/
func (c *ObservableCache) Close() {
	c.closed.Store(true)
	c.notifier.Close()
}

//
// ================= INTERNALS =================
//

// publish replaces the snapshot and fans it out. Callers hold opMu, so
// the replace and the notifications appear atomic to observers.
func (c *ObservableCache) publish(snap types.Snapshot) {
	c.store.Replace(snap)
	c.notifier.Publish(snap)
}

// beginMutation transitions to loading, clearing any prior error.
func (c *ObservableCache) beginMutation() {
	loading := c.store.Load()
	loading.Status = types.StatusLoading
	loading.Err = nil
	loading.ErrorMessage = ""
	c.publish(loading)
}

// failMutation records the failure and leaves items untouched.
func (c *ObservableCache) failMutation(err error) types.Snapshot {
	c.engine.Metrics.MutationError()
	return c.publishError(err)
}

// finishMutation publishes the successful post-mutation snapshot.
func (c *ObservableCache) finishMutation(next types.Snapshot) types.Snapshot {
	next.Status = types.StatusIdle
	next.Err = nil
	next.ErrorMessage = ""
	c.engine.Metrics.Mutation()
	c.publish(next)
	return next
}

// publishError transitions to the error state, keeping the last
// known-good items so consumers can keep showing them.
func (c *ObservableCache) publishError(err error) types.Snapshot {
	next := c.store.Load()
	next.Status = types.StatusError
	next.Err = err
	next.ErrorMessage = err.Error()
	c.publish(next)
	return next
}

// copyItems returns a fresh slice with the same contents.
func copyItems(items []types.Item) []types.Item {
	out := make([]types.Item, len(items))
	copy(out, items)
	return out
}

// dedupe drops later duplicates of any id the remote returns twice,
// keeping first occurrences in order. A well-behaved source never
// triggers this.
func dedupe(items []types.Item, logger zerolog.Logger) []types.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]types.Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			logger.Warn().Str("id", it.ID).Msg("dropping duplicate id from remote list")
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
