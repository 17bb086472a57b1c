package cache_test

import (
	"context"
	"fmt"
	"testing"

	cache "github.com/krisalay/observable-cache"
	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/types"
)

func newBenchmarkCache(b *testing.B, items int) *cache.ObservableCache {
	b.Helper()

	source := remote.NewMemorySource()
	seed := make([]types.Item, items)
	for i := range seed {
		seed[i] = types.Item{
			Title:       fmt.Sprintf("item-%d", i),
			Description: fmt.Sprintf("payload for item %d", i),
		}
	}
	source.Seed(seed...)

	c := cache.New(source)
	b.Cleanup(c.Close)

	if _, err := c.Fetch(context.Background()); err != nil {
		b.Fatalf("fetch failed: %v", err)
	}
	return c
}

//
// ================= READ BENCH =================
//

func BenchmarkSearch(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Search("item-42")
	}
}

func BenchmarkSearchMiss(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Search("no such item anywhere")
	}
}

func BenchmarkSnapshot(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Snapshot()
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkParallelSearch(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Search("item-42")
		}
	})
}

//
// ================= WRITE BENCH =================
//

func BenchmarkAdd(b *testing.B) {
	ctx := context.Background()
	c := newBenchmarkCache(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Add(ctx, types.Item{Title: fmt.Sprintf("new-%d", i)}); err != nil {
			b.Fatalf("add failed: %v", err)
		}
	}
}
