package notify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krisalay/observable-cache/notify"
	"github.com/krisalay/observable-cache/types"
)

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	n := notify.NewNotifier(nil)

	var order []string
	tag := func(name string) types.Observer {
		return types.ObserverFunc(func(types.Snapshot) {
			order = append(order, name)
		})
	}

	n.Subscribe(tag("a"))
	n.Subscribe(tag("b"))
	n.Subscribe(tag("c"))

	n.Publish(types.Snapshot{Status: types.StatusIdle})
	require.Equal(t, []string{"a", "b", "c"}, order)

	n.Publish(types.Snapshot{Status: types.StatusIdle})
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, order)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	n := notify.NewNotifier(nil)

	var got int
	sub := n.Subscribe(types.ObserverFunc(func(types.Snapshot) { got++ }))
	require.Equal(t, 1, n.Len())

	n.Publish(types.Snapshot{})
	require.Equal(t, 1, got)

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.Equal(t, 0, n.Len())

	n.Publish(types.Snapshot{})
	require.Equal(t, 1, got)
}

func TestUnsubscribeMiddleObserverKeepsOrder(t *testing.T) {
	n := notify.NewNotifier(nil)

	var order []string
	tag := func(name string) types.Observer {
		return types.ObserverFunc(func(types.Snapshot) {
			order = append(order, name)
		})
	}

	n.Subscribe(tag("a"))
	middle := n.Subscribe(tag("b"))
	n.Subscribe(tag("c"))

	middle.Unsubscribe()
	n.Publish(types.Snapshot{})
	require.Equal(t, []string{"a", "c"}, order)
}

func TestObserversReceiveIndependentCopies(t *testing.T) {
	n := notify.NewNotifier(nil)

	n.Subscribe(types.ObserverFunc(func(snap types.Snapshot) {
		snap.Items[0].Title = "first tampered"
	}))

	var second types.Snapshot
	n.Subscribe(types.ObserverFunc(func(snap types.Snapshot) {
		second = snap
	}))

	published := types.Snapshot{Items: []types.Item{{ID: "1", Title: "clean"}}}
	n.Publish(published)

	require.Equal(t, "clean", second.Items[0].Title)
	require.Equal(t, "clean", published.Items[0].Title)
}

func TestCloseDropsAllObservers(t *testing.T) {
	n := notify.NewNotifier(nil)

	var got int
	n.Subscribe(types.ObserverFunc(func(types.Snapshot) { got++ }))
	n.Subscribe(types.ObserverFunc(func(types.Snapshot) { got++ }))

	n.Close()
	require.Equal(t, 0, n.Len())

	n.Publish(types.Snapshot{})
	require.Equal(t, 0, got)
}
