package eidgo

import "time"

// Metadata is one record per unique identifier. The dotted id string is the
// primary key; the structural fields arrive pre-parsed from the caller and are
// never re-derived here.
type Metadata struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Group     string `json:"group"`
	Subgroup  string `json:"subgroup"`
	Subaction string `json:"subaction,omitempty"`
	Action    string `json:"action,omitempty"`

	// LastSeen is updated on every recorded usage.
	LastSeen time.Time `json:"lastSeen"`

	// Frequency is the usage counter.
	Frequency uint64 `json:"frequency"`

	// AvgResponseTime and ErrorRate are opaque payload fields carried for the
	// caller; the registry never interprets them.
	AvgResponseTime float64 `json:"avgResponseTime"`
	ErrorRate       float64 `json:"errorRate"`
}

// Span identifies the substring of an id that satisfied a query, for
// caller-side highlighting. A zero Span means no contiguous span exists
// (edit-distance matches).
type Span struct {
	Start int `json:"start"`
	Len   int `json:"len"`
}

// Suggestion is a single search result. Ephemeral, produced per query.
type Suggestion struct {
	ID          string   `json:"id"`
	MatchedSpan Span     `json:"matchedSpan"`
	Metadata    Metadata `json:"metadata"`

	// Rank is the match quality in [0,1]: exact prefix 1.0, substring and
	// edit-distance matches lower.
	Rank float64 `json:"rank"`
}

// Trend classifies whether an identifier's relative usage is increasing.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
	TrendFalling Trend = "falling"
)

// HotEntry is a derived ranking of one identifier. Recomputed on demand from
// Metadata; a cached copy may be persisted for fast cold start but is never
// authoritative.
type HotEntry struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Trend Trend   `json:"trend"`
}

// SortBy selects the ordering of search results.
type SortBy int

const (
	// SortByFrequency orders by descending stored frequency (the default).
	SortByFrequency SortBy = iota
	// SortByAlphabetical orders lexicographically on id.
	SortByAlphabetical
	// SortByRecent orders by descending LastSeen.
	SortByRecent
)

// String returns the sort name.
func (s SortBy) String() string {
	switch s {
	case SortByFrequency:
		return "frequency"
	case SortByAlphabetical:
		return "alphabetical"
	case SortByRecent:
		return "recent"
	default:
		return "unknown"
	}
}

// SearchOptions configures a Search call.
type SearchOptions struct {
	// Limit caps the number of results. Values <= 0 use DefaultSearchLimit.
	Limit int

	// FilterByNamespace and FilterByGroup are exact-match predicates over the
	// metadata fields. Empty strings are unconstrained.
	FilterByNamespace string
	FilterByGroup     string

	SortBy SortBy
}

// HierarchyNode groups all ids of one namespace by group, then subgroup.
// Fully derived from the metadata table; rebuilt on request.
type HierarchyNode struct {
	Namespace string                         `json:"namespace"`
	Children  map[string]map[string][]string `json:"children"`
}

// State is the durable snapshot of a registry: every held record, the
// recently-used ids (most-recent-first), and a cached hot list. The prefix
// tree is never serialized; it is rebuilt from Entries on import.
type State struct {
	Entries []Metadata `json:"eids"`
	Recent  []string   `json:"recent"`
	Hot     []HotEntry `json:"hot"`
}

// Stats is a point-in-time summary of registry shape.
type Stats struct {
	EntryCount    int
	RecentCount   int
	TreeNodeCount int
	Namespaces    int
	Groups        int
	Subgroups     int
}
