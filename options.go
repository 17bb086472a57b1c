package cache

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/krisalay/observable-cache/staleness"
	"github.com/krisalay/observable-cache/types"
)

// Option configures an ObservableCache at construction time.
type Option func(*config)

// config collects everything New needs beyond the data source.
// Zero values mean "use the default".
type config struct {
	staleness staleness.Policy
	clock     types.Clock
	metrics   types.Metrics
	logger    zerolog.Logger
}

func defaultConfig() config {
	return config{
		staleness: staleness.FixedWindow{Threshold: staleness.DefaultThreshold},
		clock:     types.SystemClock{},
		metrics:   types.NoopMetrics{},
		logger:    zerolog.Nop(),
	}
}

// WithStalenessThreshold replaces the default 5 minute fixed staleness
// window with the given duration.
func WithStalenessThreshold(threshold time.Duration) Option {
	return func(c *config) {
		c.staleness = staleness.FixedWindow{Threshold: threshold}
	}
}

// WithStalenessPolicy installs a custom staleness policy.
func WithStalenessPolicy(policy staleness.Policy) Option {
	return func(c *config) {
		if policy != nil {
			c.staleness = policy
		}
	}
}

// WithClock installs a custom clock. Tests use this to simulate the
// passage of time for staleness checks.
func WithClock(clock types.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(metrics types.Metrics) Option {
	return func(c *config) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithLogger installs a logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
