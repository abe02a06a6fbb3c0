package eidgo

import (
	"log/slog"
	"time"

	"github.com/hupe1980/eidgo/codec"
	"github.com/hupe1980/eidgo/persistence"
)

const (
	// DefaultSearchLimit caps search results when the caller gives no limit.
	DefaultSearchLimit = 50

	// DefaultMaxRecent bounds the recently-used list.
	DefaultMaxRecent = 256

	// DefaultHotLimit caps Hot results when the caller gives no limit, and
	// sizes the cached hot list in snapshots.
	DefaultHotLimit = 50

	// DefaultHalfLife is the recency decay half-life for hot scoring.
	DefaultHalfLife = 7 * 24 * time.Hour

	defaultFrequencyWeight = 0.6
	defaultRecencyWeight   = 0.4
)

type options struct {
	codec            codec.Codec
	compression      persistence.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	clock            func() time.Time
	maxRecent        int
	frequencyWeight  float64
	recencyWeight    float64
	halfLife         time.Duration
}

// Option configures registry constructor/load behavior.
type Option func(*options)

// WithCodec configures the codec used for encoding snapshot sections.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures per-section snapshot compression.
// The default is zstd.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &eidgo.BasicMetricsCollector{}
//	r := eidgo.New(eidgo.WithMetricsCollector(metrics))
//	// ... use r ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := eidgo.NewJSONLogger(slog.LevelInfo)
//	r := eidgo.New(eidgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

// WithClock overrides the time source. Intended for tests that need
// deterministic LastSeen values and decay computations.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMaxRecent bounds the recently-used list. Oldest entries are evicted
// first once the bound is reached. Values <= 0 keep the default.
func WithMaxRecent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRecent = n
		}
	}
}

// WithHotWeights sets the frequency/recency weighting of the hot score.
// Both weights must be positive; otherwise the defaults are kept. The weights
// are normalized internally, so only their ratio matters.
func WithHotWeights(frequency, recency float64) Option {
	return func(o *options) {
		if frequency > 0 && recency > 0 {
			o.frequencyWeight = frequency
			o.recencyWeight = recency
		}
	}
}

// WithHalfLife sets the recency decay half-life for hot scoring: an entry
// last seen one half-life ago contributes half the recency score of one seen
// just now. Values <= 0 keep the default.
func WithHalfLife(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.halfLife = d
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      persistence.CompressionZstd,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		clock:            time.Now,
		maxRecent:        DefaultMaxRecent,
		frequencyWeight:  defaultFrequencyWeight,
		recencyWeight:    defaultRecencyWeight,
		halfLife:         DefaultHalfLife,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
