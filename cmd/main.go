package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cache "github.com/krisalay/observable-cache"
	"github.com/krisalay/observable-cache/remote"
	"github.com/krisalay/observable-cache/types"
)

// consoleObserver prints every snapshot transition it receives.
type consoleObserver struct {
	logger zerolog.Logger
}

func (o *consoleObserver) Notify(snap types.Snapshot) {
	evt := o.logger.Info().
		Str("status", string(snap.Status)).
		Int("items", len(snap.Items))
	if snap.ErrorMessage != "" {
		evt = evt.Str("error", snap.ErrorMessage)
	}
	evt.Msg("snapshot")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		stalenessThreshold time.Duration
		injectFault        bool
		verbose            bool
	)

	cmd := &cobra.Command{
		Use:   "observable-cache",
		Short: "Walk the observable cache through its lifecycle against an in-memory source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), stalenessThreshold, injectFault, verbose)
		},
	}

	cmd.Flags().DurationVar(&stalenessThreshold, "staleness-threshold", 5*time.Minute, "how long fetched data stays fresh")
	cmd.Flags().BoolVar(&injectFault, "inject-fault", false, "make one fetch fail to show error handling")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	return cmd
}

func runDemo(ctx context.Context, threshold time.Duration, injectFault, verbose bool) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	// ---------------- Remote Source ----------------
	source := remote.NewMemorySource()
	source.Seed(
		types.Item{Title: "Write release notes", Description: "v2.3 changelog", Priority: types.PriorityHigh},
		types.Item{Title: "Rotate API keys", Priority: types.PriorityCritical, DueDate: time.Now().Add(-24 * time.Hour)},
		types.Item{Title: "Clean up feature flags", Priority: types.PriorityLow},
	)

	// ---------------- Cache ----------------
	c := cache.New(source,
		cache.WithStalenessThreshold(threshold),
		cache.WithLogger(logger),
	)
	defer c.Close()

	sub := c.Subscribe(&consoleObserver{logger: logger.With().Str("component", "observer").Logger()})
	defer sub.Unsubscribe()

	// ---------------- Fetch ----------------
	logger.Info().Bool("needs_refresh", c.NeedsRefresh()).Msg("before first fetch")

	if injectFault {
		source.FailWith(remote.OpList, remote.ErrNetwork.Wrap("connection refused"))
		if _, err := c.Fetch(ctx); err != nil {
			logger.Info().Msg("fetch failed as requested; last known-good items are kept")
		}
	}

	if _, err := c.Fetch(ctx); err != nil {
		return err
	}
	logger.Info().Bool("needs_refresh", c.NeedsRefresh()).Msg("after fetch")

	// ---------------- Mutations ----------------
	snap, err := c.Add(ctx, types.Item{Title: "Ship the demo", Priority: types.PriorityMedium})
	if err != nil {
		return err
	}
	added := snap.Items[len(snap.Items)-1]

	added.Complete(time.Now())
	if _, err := c.Update(ctx, added); err != nil {
		return err
	}

	if _, err := c.Remove(ctx, added.ID); err != nil {
		return err
	}

	// ---------------- Reads ----------------
	for _, it := range c.Search("api") {
		logger.Info().Str("id", it.ID).Str("title", it.Title).Msg("search match")
	}

	now := time.Now()
	overdue := c.SearchFunc(func(it types.Item) bool { return it.IsOverdue(now) })
	logger.Info().Int("count", len(overdue)).Msg("overdue items")

	// ---------------- Clear ----------------
	if _, err := c.Clear(); err != nil {
		return err
	}
	logger.Info().Bool("needs_refresh", c.NeedsRefresh()).Msg("after clear")

	return nil
}
