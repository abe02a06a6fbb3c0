package prefixtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzySearch_PrefixBeatsSubstring(t *testing.T) {
	tr := New[int]()
	tr.Insert("recommendations.feed", 1)
	tr.Insert("pandc.vnext.recommendations.view", 2)

	matches := tr.FuzzySearch("recommend", 0)
	require.Len(t, matches, 2)

	assert.Equal(t, "recommendations.feed", matches[0].Key)
	assert.Equal(t, qualityPrefix, matches[0].Quality)
	assert.Equal(t, 0, matches[0].Offset)

	assert.Equal(t, "pandc.vnext.recommendations.view", matches[1].Key)
	assert.Equal(t, qualitySubstring, matches[1].Quality)
	assert.Equal(t, len("pandc.vnext."), matches[1].Offset)
	assert.Equal(t, len("recommend"), matches[1].Length)
}

func TestFuzzySearch_CaseInsensitive(t *testing.T) {
	tr := New[int]()
	tr.Insert("pandc.vnext.Recommendations.view", 1)

	matches := tr.FuzzySearch("RECOMMEND", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, qualitySubstring, matches[0].Quality)
}

func TestFuzzySearch_EditDistance(t *testing.T) {
	tr := New[int]()
	tr.Insert("pandc.vnext.discovery.search", 1)

	// "discovry" is one deletion away from the "discovery" segment.
	matches := tr.FuzzySearch("discovry", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "pandc.vnext.discovery.search", matches[0].Key)
	assert.InDelta(t, qualityEditBase/2, matches[0].Quality, 1e-9)
	assert.Equal(t, -1, matches[0].Offset, "edit matches have no contiguous span")

	// Two edits within budget for a long query.
	matches = tr.FuzzySearch("disscovry", 0)
	require.Len(t, matches, 1)

	// Three edits exceed the budget.
	matches = tr.FuzzySearch("dizzcovry", 0)
	for _, m := range matches {
		assert.NotEqual(t, -1, m.Offset)
	}
}

func TestFuzzySearch_ShortQuerySkipsEditTier(t *testing.T) {
	tr := New[int]()
	tr.Insert("ab.cd", 1)

	// "xy" matches nothing as substring and the edit tier is disabled for
	// two-byte queries.
	assert.Empty(t, tr.FuzzySearch("xy", 0))
}

func TestFuzzySearch_HitsBreakTies(t *testing.T) {
	tr := New[int]()
	tr.Insert("cart.add", 1)
	tr.Insert("cart.remove", 2)
	tr.Bump("cart.remove", 5)

	matches := tr.FuzzySearch("cart", 0)
	require.Len(t, matches, 2)
	assert.Equal(t, "cart.remove", matches[0].Key, "higher hit count wins the tie")
}

func TestFuzzySearch_LimitAndEmptyQuery(t *testing.T) {
	tr := New[int]()
	tr.Insert("aaa.one", 1)
	tr.Insert("aaa.two", 2)
	tr.Insert("aaa.three", 3)

	assert.Len(t, tr.FuzzySearch("aaa", 2), 2)
	assert.Empty(t, tr.FuzzySearch("", 0))
}

func TestEditDistanceAtMost(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		dist int
		ok   bool
	}{
		{"search", "search", 2, 0, true},
		{"search", "serch", 2, 1, true},
		{"search", "saerch", 2, 2, true},
		{"search", "xxxxxx", 2, 0, false},
		{"", "ab", 2, 2, true},
		{"ab", "", 1, 0, false},
		{"abc", "abcdef", 2, 0, false}, // length gap alone exceeds budget
	}
	for _, tt := range tests {
		d, ok := editDistanceAtMost(tt.a, tt.b, tt.max)
		assert.Equal(t, tt.ok, ok, "%s vs %s", tt.a, tt.b)
		if tt.ok {
			assert.Equal(t, tt.dist, d, "%s vs %s", tt.a, tt.b)
		}
	}
}
