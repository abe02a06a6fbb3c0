package prefixtree

import (
	"sort"
	"strings"
)

// Match quality tiers. An exact prefix always outranks a substring hit, which
// always outranks an edit-distance hit; within the edit tier, quality decays
// with distance.
const (
	qualityPrefix    = 1.0
	qualitySubstring = 0.75
	qualityEditBase  = 0.5
)

// FuzzyMatch is a single fuzzy-search result.
type FuzzyMatch[V any] struct {
	Key   string
	Value V

	// Quality ranks the match: exact prefix > substring > edit-distance.
	Quality float64

	// Offset and Length describe the matched span within Key, for
	// caller-side highlighting. Offset is -1 for edit-distance matches,
	// where no contiguous span exists.
	Offset int
	Length int

	// Hits is the key's embedded usage counter at query time.
	Hits uint64
}

// FuzzySearch returns keys that approximately match query, ranked by match
// quality: exact (case-insensitive) prefix first, then substring occurrences,
// then keys with a dot-separated segment within a small edit distance of the
// query. limit <= 0 means no limit.
//
// The edit-distance budget is 1 for queries shorter than 5 bytes and 2
// otherwise; queries shorter than 3 bytes skip the edit tier entirely since
// nearly everything is within distance 1 of a two-byte string.
//
// Unlike PrefixSearch, this scans all stored keys. It is intended as a
// fallback for queries that a strict prefix walk cannot serve.
func (t *Tree[V]) FuzzySearch(query string, limit int) []FuzzyMatch[V] {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	budget := editBudget(q)

	type ranked struct {
		node int32
		m    FuzzyMatch[V]
	}
	var out []ranked

	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.hasValue {
			continue
		}
		key := strings.ToLower(n.key)

		var m FuzzyMatch[V]
		switch idx := strings.Index(key, q); {
		case idx == 0:
			m = FuzzyMatch[V]{Quality: qualityPrefix, Offset: 0, Length: len(query)}
		case idx > 0:
			m = FuzzyMatch[V]{Quality: qualitySubstring, Offset: idx, Length: len(query)}
		default:
			if budget == 0 {
				continue
			}
			dist, ok := bestSegmentDistance(key, q, budget)
			if !ok {
				continue
			}
			m = FuzzyMatch[V]{Quality: qualityEditBase / float64(1+dist), Offset: -1, Length: 0}
		}

		m.Key = n.key
		m.Value = n.value
		m.Hits = n.hits
		out = append(out, ranked{node: int32(i), m: m})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.m.Quality != b.m.Quality {
			return a.m.Quality > b.m.Quality
		}
		if a.m.Hits != b.m.Hits {
			return a.m.Hits > b.m.Hits
		}
		return t.nodes[a.node].seq < t.nodes[b.node].seq
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	matches := make([]FuzzyMatch[V], len(out))
	for i, r := range out {
		matches[i] = r.m
	}
	return matches
}

func editBudget(q string) int {
	switch {
	case len(q) < 3:
		return 0
	case len(q) < 5:
		return 1
	default:
		return 2
	}
}

// bestSegmentDistance computes the minimum Levenshtein distance between query
// and any dot-separated segment of key, abandoning a segment as soon as its
// distance provably exceeds maxDist.
func bestSegmentDistance(key, query string, maxDist int) (int, bool) {
	best := maxDist + 1
	for seg := range strings.SplitSeq(key, ".") {
		if d, ok := editDistanceAtMost(seg, query, maxDist); ok && d < best {
			best = d
			if best == 0 {
				break
			}
		}
	}
	return best, best <= maxDist
}

// editDistanceAtMost computes the Levenshtein distance between a and b,
// returning false early once the distance is guaranteed to exceed maxDist.
// Two-row dynamic programming; byte-wise, which is exact for the ASCII
// identifiers this tree is used with.
func editDistanceAtMost(a, b string, maxDist int) (int, bool) {
	if abs(len(a)-len(b)) > maxDist {
		return 0, false
	}
	if len(a) == 0 {
		return len(b), len(b) <= maxDist
	}
	if len(b) == 0 {
		return len(a), len(a) <= maxDist
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDist {
			return 0, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(b)]
	return d, d <= maxDist
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
