package eidgo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eidgo"
)

func fixedClock(now time.Time) eidgo.Option {
	return eidgo.WithClock(func() time.Time { return now })
}

func TestHotRecencyBeatsEqualFrequency(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	r := eidgo.New(fixedClock(now))

	require.NoError(t, r.Initialize(context.Background(), []eidgo.Metadata{
		{ID: "a.b.stale", Namespace: "a", Group: "b", Subgroup: "stale",
			Frequency: 100, LastSeen: now.Add(-10 * 24 * time.Hour)},
		{ID: "a.b.fresh", Namespace: "a", Group: "b", Subgroup: "fresh",
			Frequency: 100, LastSeen: now},
	}))

	hot := r.Hot(10)
	require.Len(t, hot, 2)
	assert.Equal(t, "a.b.fresh", hot[0].ID)
	assert.Equal(t, "a.b.stale", hot[1].ID)
	assert.Greater(t, hot[0].Score, hot[1].Score)
}

func TestHotTrendClassification(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	r := eidgo.New(fixedClock(now))

	require.NoError(t, r.Initialize(context.Background(), []eidgo.Metadata{
		// Barely used but touched just now: recency dominates.
		{ID: "a.b.rising", Namespace: "a", Group: "b", Subgroup: "rising",
			Frequency: 1, LastSeen: now},
		// Heavy historical use, gone quiet for two months.
		{ID: "a.b.falling", Namespace: "a", Group: "b", Subgroup: "falling",
			Frequency: 100, LastSeen: now.Add(-60 * 24 * time.Hour)},
		// Heavy use and touched just now: both components contribute.
		{ID: "a.b.stable", Namespace: "a", Group: "b", Subgroup: "stable",
			Frequency: 100, LastSeen: now},
	}))

	trends := make(map[string]eidgo.Trend)
	for _, h := range r.Hot(10) {
		trends[h.ID] = h.Trend
	}

	assert.Equal(t, eidgo.TrendRising, trends["a.b.rising"])
	assert.Equal(t, eidgo.TrendFalling, trends["a.b.falling"])
	assert.Equal(t, eidgo.TrendStable, trends["a.b.stable"])
}

func TestHotOrderingAndLimit(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	r := eidgo.New(fixedClock(now))

	records := []eidgo.Metadata{
		{ID: "a.b.one", Namespace: "a", Group: "b", Subgroup: "one", Frequency: 10, LastSeen: now},
		{ID: "a.b.two", Namespace: "a", Group: "b", Subgroup: "two", Frequency: 50, LastSeen: now},
		{ID: "a.b.three", Namespace: "a", Group: "b", Subgroup: "three", Frequency: 90, LastSeen: now},
	}
	require.NoError(t, r.Initialize(context.Background(), records))

	hot := r.Hot(2)
	require.Len(t, hot, 2)
	assert.Equal(t, "a.b.three", hot[0].ID)
	assert.Equal(t, "a.b.two", hot[1].ID)

	for i := 1; i < len(hot); i++ {
		assert.GreaterOrEqual(t, hot[i-1].Score, hot[i].Score)
	}
}

func TestHotEmptyRegistry(t *testing.T) {
	r := eidgo.New()
	assert.Empty(t, r.Hot(10))
}

func TestHotHalfLifeOption(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	records := []eidgo.Metadata{
		{ID: "a.b.old", Namespace: "a", Group: "b", Subgroup: "old",
			Frequency: 100, LastSeen: now.Add(-24 * time.Hour)},
		{ID: "a.b.new", Namespace: "a", Group: "b", Subgroup: "new",
			Frequency: 99, LastSeen: now},
	}

	// A short half-life punishes yesterday's entry enough for the slightly
	// less frequent but fresh one to win.
	short := eidgo.New(fixedClock(now), eidgo.WithHalfLife(time.Hour))
	require.NoError(t, short.Initialize(context.Background(), records))
	hot := short.Hot(2)
	require.Len(t, hot, 2)
	assert.Equal(t, "a.b.new", hot[0].ID)

	// A very long half-life barely decays a single day, so frequency wins.
	long := eidgo.New(fixedClock(now), eidgo.WithHalfLife(365*24*time.Hour))
	require.NoError(t, long.Initialize(context.Background(), records))
	hot = long.Hot(2)
	require.Len(t, hot, 2)
	assert.Equal(t, "a.b.old", hot[0].ID)
}

func TestHotWeightsOption(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	records := []eidgo.Metadata{
		{ID: "a.b.frequent", Namespace: "a", Group: "b", Subgroup: "frequent",
			Frequency: 100, LastSeen: now.Add(-3 * 24 * time.Hour)},
		{ID: "a.b.fresh", Namespace: "a", Group: "b", Subgroup: "fresh",
			Frequency: 10, LastSeen: now},
	}

	freqHeavy := eidgo.New(fixedClock(now), eidgo.WithHotWeights(0.95, 0.05))
	require.NoError(t, freqHeavy.Initialize(context.Background(), records))
	assert.Equal(t, "a.b.frequent", freqHeavy.Hot(2)[0].ID)

	recencyHeavy := eidgo.New(fixedClock(now), eidgo.WithHotWeights(0.05, 0.95))
	require.NoError(t, recencyHeavy.Initialize(context.Background(), records))
	assert.Equal(t, "a.b.fresh", recencyHeavy.Hot(2)[0].ID)
}
