package eidgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSearch(query string, results int, duration time.Duration) {
//	    p.searchHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordAddEntry is called after each insert/replace.
	RecordAddEntry(duration time.Duration)

	// RecordUsage is called after each usage record. known is false when the
	// id was not registered and the call was a no-op.
	RecordUsage(known bool, duration time.Duration)

	// RecordSearch is called after each search. results is the number of
	// suggestions returned.
	RecordSearch(query string, results int, duration time.Duration)

	// RecordInitialize is called after each bulk load.
	// count is the number of records loaded, err is nil if successful.
	RecordInitialize(count int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// op is "save" or "load", err is nil if successful.
	RecordSnapshot(op string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAddEntry(time.Duration)                {}
func (NoopMetricsCollector) RecordUsage(bool, time.Duration)             {}
func (NoopMetricsCollector) RecordSearch(string, int, time.Duration)     {}
func (NoopMetricsCollector) RecordInitialize(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordSnapshot(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddEntryCount    atomic.Int64
	UsageCount       atomic.Int64
	UsageUnknown     atomic.Int64
	SearchCount      atomic.Int64
	SearchResults    atomic.Int64
	SearchTotalNanos atomic.Int64
	InitializeCount  atomic.Int64
	InitializeErrors atomic.Int64
	SnapshotCount    atomic.Int64
	SnapshotErrors   atomic.Int64
}

// RecordAddEntry implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAddEntry(duration time.Duration) {
	b.AddEntryCount.Add(1)
}

// RecordUsage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUsage(known bool, duration time.Duration) {
	b.UsageCount.Add(1)
	if !known {
		b.UsageUnknown.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(query string, results int, duration time.Duration) {
	b.SearchCount.Add(1)
	b.SearchResults.Add(int64(results))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
}

// RecordInitialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInitialize(count int, duration time.Duration, err error) {
	b.InitializeCount.Add(1)
	if err != nil {
		b.InitializeErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddEntryCount:    b.AddEntryCount.Load(),
		UsageCount:       b.UsageCount.Load(),
		UsageUnknown:     b.UsageUnknown.Load(),
		SearchCount:      b.SearchCount.Load(),
		SearchResults:    b.SearchResults.Load(),
		SearchAvgNanos:   b.getAvgSearchNanos(),
		InitializeCount:  b.InitializeCount.Load(),
		InitializeErrors: b.InitializeErrors.Load(),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddEntryCount    int64
	UsageCount       int64
	UsageUnknown     int64
	SearchCount      int64
	SearchResults    int64
	SearchAvgNanos   int64
	InitializeCount  int64
	InitializeErrors int64
	SnapshotCount    int64
	SnapshotErrors   int64
}
