package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/krisalay/observable-cache"
	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/types"
)

// countingObserver tallies notifications without doing any work,
// approximating a cheap UI binding.
type countingObserver struct {
	mu    sync.Mutex
	count int
}

func (o *countingObserver) Notify(types.Snapshot) {
	o.mu.Lock()
	o.count++
	o.mu.Unlock()
}

func main() {
	ctx := context.Background()

	fmt.Println("\n================ OBSERVABLE CACHE LOAD BENCHMARK =================")

	// ---------------- Config ----------------
	const (
		seedItems  = 10000
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Seed Items   :", seedItems)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// ---------------- Remote Source ----------------
	source := remote.NewMemorySource()
	items := make([]types.Item, seedItems)
	for i := range items {
		items[i] = types.Item{
			Title:       fmt.Sprintf("item-%d", i),
			Description: fmt.Sprintf("payload for item %d", i),
		}
	}
	source.Seed(items...)

	// ---------------- Cache ----------------
	obs := &countingObserver{}
	c := cache.New(source)
	defer c.Close()

	sub := c.Subscribe(obs)
	defer sub.Unsubscribe()

	fmt.Println("Fetching collection...")
	if _, err := c.Fetch(ctx); err != nil {
		fmt.Println("fetch failed:", err)
		return
	}
	fmt.Println("Fetch complete.")

	// ---------------- Read Load ----------------
	fmt.Println("Running concurrent search benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				query := fmt.Sprintf("item-%d", j%seedItems)
				_ = c.Search(query)
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Searches   : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Notifications    : %d\n", obs.count)
	fmt.Println("=========================================")
}
