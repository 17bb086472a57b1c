package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/observable-cache/engine"
	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/staleness"
	"github.com/krisalay/observable-cache/types"
)

type frozenClock struct{ now time.Time }

func (c frozenClock) Now() time.Time { return c.now }

func TestNewEngineFillsDefaults(t *testing.T) {
	e := engine.NewEngine(remote.NewMemorySource(), nil, nil, nil, zerolog.Nop())

	require.NotNil(t, e.Staleness)
	require.NotNil(t, e.Clock)
	require.NotNil(t, e.Metrics)

	// Defaults: never fetched is stale, a fresh fetch is not.
	require.True(t, e.NeedsRefresh(time.Time{}))
	require.False(t, e.NeedsRefresh(e.Clock.Now()))
}

func TestNeedsRefreshUsesPolicyAndClock(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := engine.NewEngine(
		remote.NewMemorySource(),
		staleness.FixedWindow{Threshold: time.Minute},
		frozenClock{now: now},
		nil,
		zerolog.Nop(),
	)

	require.False(t, e.NeedsRefresh(now.Add(-30*time.Second)))
	require.True(t, e.NeedsRefresh(now.Add(-2*time.Minute)))
}

func TestEngineDelegatesToSource(t *testing.T) {
	ctx := context.Background()
	source := remote.NewMemorySource()
	e := engine.NewEngine(source, nil, nil, nil, zerolog.Nop())

	created, err := e.Create(ctx, types.Item{Title: "a"})
	require.NoError(t, err)

	items, err := e.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	created.Title = "a2"
	updated, err := e.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "a2", updated.Title)

	require.NoError(t, e.Delete(ctx, created.ID))

	items, err = e.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestEnginePropagatesSourceErrors(t *testing.T) {
	ctx := context.Background()
	source := remote.NewMemorySource()
	source.FailWith(remote.OpList, remote.ErrNetwork.Wrap("down"))

	e := engine.NewEngine(source, nil, nil, nil, zerolog.Nop())

	_, err := e.List(ctx)
	require.True(t, remote.ErrNetwork.Is(err))
}
