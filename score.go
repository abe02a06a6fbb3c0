package eidgo

import (
	"math"
	"sort"
	"time"
)

// trendDominance is the ratio at which one score component is considered to
// dominate the other when classifying trend.
const trendDominance = 1.5

// Hot returns the top limit identifiers by hot score, descending. The score
// blends normalized frequency with an exponential recency decay:
//
//	score = fw·(frequency/maxFrequency) + rw·2^(−elapsed/halfLife)
//
// For two records with identical frequency, the more recently seen one always
// scores strictly higher. Trend is Rising when the recency component
// dominates the frequency component, Falling in the opposite case, Stable
// otherwise.
//
// Hot is always recomputed from the metadata table; the result is also cached
// for inclusion in snapshots. limit <= 0 uses DefaultHotLimit.
func (r *Registry) Hot(limit int) []HotEntry {
	if limit <= 0 {
		limit = DefaultHotLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hot := r.computeHotLocked(limit)
	r.hotCache = hot

	out := make([]HotEntry, len(hot))
	copy(out, hot)
	return out
}

// computeHotLocked scores every record and returns the top limit entries.
// Caller holds the write lock (the result is cached on the registry).
func (r *Registry) computeHotLocked(limit int) []HotEntry {
	now := r.opts.clock()

	var maxFreq uint64
	for _, e := range r.entries {
		if e.meta.Frequency > maxFreq {
			maxFreq = e.meta.Frequency
		}
	}

	// Normalize the weights so only their ratio matters.
	fw := r.opts.frequencyWeight
	rw := r.opts.recencyWeight
	total := fw + rw
	fw /= total
	rw /= total

	out := make([]HotEntry, 0, len(r.entries))
	for _, e := range r.entries {
		freqPart := fw * normalizeFrequency(e.meta.Frequency, maxFreq)
		recencyPart := rw * recencyDecay(now.Sub(e.meta.LastSeen), r.opts.halfLife)
		out = append(out, HotEntry{
			ID:    e.meta.ID,
			Score: freqPart + recencyPart,
			Trend: classifyTrend(freqPart, recencyPart),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// normalizeFrequency maps a raw counter into [0,1] relative to the corpus
// maximum. An empty corpus scores zero.
func normalizeFrequency(freq, maxFreq uint64) float64 {
	if maxFreq == 0 {
		return 0
	}
	return float64(freq) / float64(maxFreq)
}

// recencyDecay is an exponential half-life decay over elapsed time, clamped
// to 1.0 for zero or negative elapsed (clock skew on imported snapshots).
// Strictly decreasing in elapsed, which is the load-bearing property: equal
// frequencies are broken by recency.
func recencyDecay(elapsed, halfLife time.Duration) float64 {
	if elapsed <= 0 {
		return 1
	}
	return math.Exp2(-float64(elapsed) / float64(halfLife))
}

// classifyTrend compares the weighted recency contribution against the
// weighted frequency contribution. A recently touched id with little raw
// frequency is Rising; a frequent id gone quiet is Falling.
func classifyTrend(freqPart, recencyPart float64) Trend {
	switch {
	case recencyPart > trendDominance*freqPart:
		return TrendRising
	case freqPart > trendDominance*recencyPart:
		return TrendFalling
	default:
		return TrendStable
	}
}
