package vptree

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after bulk construction.
	// count is the number of points indexed, duration is the total time
	// taken, err is nil if successful.
	RecordBuild(count int, duration time.Duration, err error)

	// RecordInsert is called after each insert operation.
	RecordInsert(duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	// removed reports whether a point was actually taken out of the tree.
	RecordRemove(removed bool, duration time.Duration, err error)

	// RecordSearch is called after each search operation (kNN, radius or
	// brute-force). k is the number of neighbors requested (0 for radius
	// searches), duration is the time taken, err is nil if successful.
	RecordSearch(k int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordInsert(time.Duration, error)       {}
func (NoopMetricsCollector) RecordRemove(bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildPoints      atomic.Int64
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	RemoveCount      atomic.Int64
	RemoveErrors     atomic.Int64
	RemoveMisses     atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(count int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildPoints.Add(int64(count))
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(removed bool, duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	if !removed && err == nil {
		b.RemoveMisses.Add(1)
	}
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildPoints:    b.BuildPoints.Load(),
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avgNanos(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		RemoveCount:    b.RemoveCount.Load(),
		RemoveErrors:   b.RemoveErrors.Load(),
		RemoveMisses:   b.RemoveMisses.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: avgNanos(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildPoints    int64
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	RemoveCount    int64
	RemoveErrors   int64
	RemoveMisses   int64
	SearchCount    int64
	SearchErrors   int64
	SearchAvgNanos int64
}
