package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/staleness"
	"github.com/krisalay/observable-cache/types"
)

/*
Engine is the "brain" of the cache.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- When cached data is stale and needs a refresh
- How remote calls are delegated, logged and timed
- How metrics are recorded

It does NOT:
- Hold the snapshot
- Serialize operations
- Notify observers
*/
type Engine struct {

	// Source is how the cache talks to the outside world.
	// This can be a REST API, a database, or any external call.
	Source remote.DataSource

	// Staleness decides when fetched data should be considered "too old".
	// Example: consider data stale 5 minutes after the last fetch.
	// If this is nil, the default fixed window applies.
	Staleness staleness.Policy

	// Clock provides the current time for staleness decisions.
	// Tests swap it for a fake to simulate the passage of time.
	Clock types.Clock

	// Metrics is how we keep track of what the cache is doing.
	// Fetches, fetch errors, mutations, notifications, etc.
	Metrics types.Metrics

	// Logger records remote call outcomes. Defaults to a no-op logger.
	Logger zerolog.Logger
}

/*
NewEngine creates an Engine, filling in safe defaults for anything
left nil so callers don't need defensive checks.
*/
func NewEngine(
	source remote.DataSource,
	stale staleness.Policy,
	clock types.Clock,
	metrics types.Metrics,
	logger zerolog.Logger,
) *Engine {

	if stale == nil {
		stale = staleness.FixedWindow{Threshold: staleness.DefaultThreshold}
	}
	if clock == nil {
		clock = types.SystemClock{}
	}
	// Ensure metrics is always non-nil
	// This avoids defensive nil checks throughout the codebase
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &Engine{
		Source:    source,
		Staleness: stale,
		Clock:     clock,
		Metrics:   metrics,
		Logger:    logger,
	}
}

/*
NeedsRefresh reports whether data fetched at lastFetch is stale right
now. Pure read: no state change, no notification.
*/
func (e *Engine) NeedsRefresh(lastFetch time.Time) bool {
	return e.Staleness.IsStale(lastFetch, e.Clock.Now())
}

/*
List fetches the full remote collection.
*/
func (e *Engine) List(ctx context.Context) ([]types.Item, error) {
	items, err := e.Source.List(ctx)
	if err != nil {
		e.Logger.Warn().Err(err).Msg("remote list failed")
		return nil, err
	}
	e.Logger.Debug().Int("count", len(items)).Msg("remote list complete")
	return items, nil
}

/*
Create stores a new item remotely and returns the canonical item.
*/
func (e *Engine) Create(ctx context.Context, item types.Item) (types.Item, error) {
	created, err := e.Source.Create(ctx, item)
	if err != nil {
		e.Logger.Warn().Err(err).Str("title", item.Title).Msg("remote create failed")
		return types.Item{}, err
	}
	e.Logger.Debug().Str("id", created.ID).Msg("remote create complete")
	return created, nil
}

/*
Update replaces the remote item and returns the canonical item.
*/
func (e *Engine) Update(ctx context.Context, item types.Item) (types.Item, error) {
	updated, err := e.Source.Update(ctx, item)
	if err != nil {
		e.Logger.Warn().Err(err).Str("id", item.ID).Msg("remote update failed")
		return types.Item{}, err
	}
	e.Logger.Debug().Str("id", updated.ID).Msg("remote update complete")
	return updated, nil
}

/*
Delete removes the remote item. Absent ids succeed.
*/
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.Source.Delete(ctx, id); err != nil {
		e.Logger.Warn().Err(err).Str("id", id).Msg("remote delete failed")
		return err
	}
	e.Logger.Debug().Str("id", id).Msg("remote delete complete")
	return nil
}
