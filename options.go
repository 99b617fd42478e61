package vptree

import (
	"log/slog"
	"math/rand/v2"
)

// PivotStrategy selects how a vantage point is chosen from the working set
// during bulk construction.
type PivotStrategy int

const (
	// PivotStrategyRandom picks the vantage point uniformly at random from
	// the remaining working set. Expected-balanced trees independent of
	// input order.
	PivotStrategyRandom PivotStrategy = iota

	// PivotStrategyFirst always picks the first element of the working set.
	// Reproducible and cheaper, but sensitive to input order: adversarial
	// orderings can produce degenerate chains.
	PivotStrategyFirst
)

// String returns a string representation of the PivotStrategy.
func (ps PivotStrategy) String() string {
	switch ps {
	case PivotStrategyRandom:
		return "Random"
	case PivotStrategyFirst:
		return "First"
	default:
		return "Unknown"
	}
}

type options struct {
	pivotStrategy    PivotStrategy
	rand             *rand.Rand
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures tree construction behavior.
type Option func(*options)

// WithPivotStrategy configures how vantage points are selected during bulk
// construction. The default is PivotStrategyRandom.
func WithPivotStrategy(strategy PivotStrategy) Option {
	return func(o *options) {
		o.pivotStrategy = strategy
	}
}

// WithRand configures the random source used by PivotStrategyRandom.
// Pass a seeded source for reproducible random builds.
//
// If nil is passed, the shared global source is used.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vptree.BasicMetricsCollector{}
//	tree, _ := vptree.New(points, metric.Hamming, vptree.WithMetricsCollector(metrics))
//	// ... use tree ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		pivotStrategy:    PivotStrategyRandom,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
