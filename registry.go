package eidgo

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/eidgo/facet"
	"github.com/hupe1980/eidgo/prefixtree"
)

// initCheckInterval is how many records Initialize processes between
// cancellation checks.
const initCheckInterval = 1024

// entry pairs a record with its dense local id. The local id indexes the
// facet bitmaps and byLocal table and is stable for the entry's lifetime.
type entry struct {
	meta  Metadata
	local uint32
}

// Registry is the domain-facing identifier index. It owns all identifier
// metadata, wraps the prefix tree for search, maintains a bounded
// most-recently-used list, scores hotness, derives the namespace hierarchy,
// and exposes the snapshot contract.
//
// Safe for concurrent use. Reads vastly outnumber writes in the expected
// workload, so a single reader-writer lock protects the metadata table and
// tree rather than per-key locks.
type Registry struct {
	mu   sync.RWMutex
	opts options

	entries map[string]*entry
	byLocal []string // local id -> identifier

	tree   *prefixtree.Tree[uint32]
	facets *facet.Index

	// recent holds recently used ids, most-recent-first, bounded by
	// opts.maxRecent.
	recent []string

	// hotCache is the last computed hot list, persisted in snapshots for
	// fast cold start. Never authoritative; Hot always recomputes.
	hotCache []HotEntry
}

// New creates an empty Registry.
func New(optFns ...Option) *Registry {
	return &Registry{
		opts:    applyOptions(optFns),
		entries: make(map[string]*entry),
		tree:    prefixtree.New[uint32](),
		facets:  facet.NewIndex(),
	}
}

// Initialize bulk-loads records, replacing all current entries. Per-record
// semantics match AddEntry (replace, not merge) except the recent list is
// left untouched. The tree and facet index are built concurrently; ctx
// cancels the load, leaving the registry empty.
func (r *Registry) Initialize(ctx context.Context, records []Metadata) error {
	start := r.opts.clock()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()

	for _, m := range records {
		if _, ok := r.entries[m.ID]; ok {
			r.entries[m.ID].meta = m
			continue
		}
		local := uint32(len(r.byLocal))
		r.byLocal = append(r.byLocal, m.ID)
		r.entries[m.ID] = &entry{meta: m, local: local}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, id := range r.byLocal {
			if i%initCheckInterval == 0 && gctx.Err() != nil {
				return gctx.Err()
			}
			r.tree.Insert(id, r.entries[id].local)
		}
		return nil
	})
	g.Go(func() error {
		for i, id := range r.byLocal {
			if i%initCheckInterval == 0 && gctx.Err() != nil {
				return gctx.Err()
			}
			e := r.entries[id]
			r.facets.Set(e.local, facetFields(e.meta))
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		r.resetLocked()
	}

	elapsed := r.opts.clock().Sub(start)
	r.opts.metricsCollector.RecordInitialize(len(records), elapsed, err)
	r.opts.logger.LogInitialize(ctx, len(records), elapsed, err)
	return err
}

// AddEntry inserts or replaces a single record. Replacement is wholesale,
// last-writer-wins; fields of a previous record with the same id are not
// merged. The id is also pushed to the front of the recent list.
func (r *Registry) AddEntry(meta Metadata) {
	start := r.opts.clock()

	r.mu.Lock()
	replaced := r.upsertLocked(meta)
	r.pushRecentLocked(meta.ID)
	r.mu.Unlock()

	r.opts.metricsCollector.RecordAddEntry(r.opts.clock().Sub(start))
	r.opts.logger.LogAddEntry(context.Background(), meta.ID, replaced)
}

// RecordUsage bumps the record's frequency by one, stamps LastSeen, and
// pushes the id to the front of the recent list. Unknown ids are a silent
// no-op: the caller may race a usage record against a still-in-flight
// registration.
func (r *Registry) RecordUsage(id string) {
	start := r.opts.clock()

	r.mu.Lock()
	e, known := r.entries[id]
	if known {
		e.meta.Frequency++
		e.meta.LastSeen = r.opts.clock()
		r.tree.Bump(id, 1)
		r.pushRecentLocked(id)
	}
	r.mu.Unlock()

	r.opts.metricsCollector.RecordUsage(known, r.opts.clock().Sub(start))
	r.opts.logger.LogUsage(context.Background(), id, known)
}

// Get returns the record stored under id.
func (r *Registry) Get(id string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return Metadata{}, false
	}
	return e.meta, true
}

// Len returns the number of stored records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// candidate is an intermediate search hit before filtering and ordering.
type candidate struct {
	local uint32
	span  Span
	rank  float64
}

// Search returns ranked suggestions for query. An empty query browses all
// records, subject to filters. Non-empty queries run a prefix walk first and
// supplement with fuzzy matches when the prefix walk alone cannot fill the
// limit. Filters never raise; a query that excludes everything returns an
// empty slice.
func (r *Registry) Search(query string, optFns ...func(*SearchOptions)) []Suggestion {
	opts := SearchOptions{
		Limit:  DefaultSearchLimit,
		SortBy: SortByFrequency,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}

	start := r.opts.clock()

	r.mu.RLock()
	cands := r.candidatesLocked(query, opts.Limit)
	if bm, filtered := r.facets.Filter(opts.FilterByNamespace, opts.FilterByGroup); filtered {
		kept := cands[:0]
		for _, c := range cands {
			if bm.Contains(c.local) {
				kept = append(kept, c)
			}
		}
		cands = kept
	}

	r.sortCandidatesLocked(cands, opts.SortBy)
	if len(cands) > opts.Limit {
		cands = cands[:opts.Limit]
	}

	out := make([]Suggestion, len(cands))
	for i, c := range cands {
		meta := r.entries[r.byLocal[c.local]].meta
		out[i] = Suggestion{
			ID:          meta.ID,
			MatchedSpan: c.span,
			Metadata:    meta,
			Rank:        c.rank,
		}
	}
	r.mu.RUnlock()

	elapsed := r.opts.clock().Sub(start)
	r.opts.metricsCollector.RecordSearch(query, len(out), elapsed)
	r.opts.logger.LogSearch(context.Background(), query, len(out), elapsed)
	return out
}

// candidatesLocked gathers match candidates for query. Caller holds at least
// a read lock.
func (r *Registry) candidatesLocked(query string, limit int) []candidate {
	if query == "" {
		cands := make([]candidate, 0, len(r.entries))
		for _, e := range r.entries {
			cands = append(cands, candidate{local: e.local, rank: 1.0})
		}
		return cands
	}

	// The prefix walk over-fetches so that filters and reordering still have
	// enough material after truncation.
	generous := 4 * limit
	if generous < 256 {
		generous = 256
	}

	seen := make(map[uint32]struct{})
	var cands []candidate
	for _, m := range r.tree.PrefixSearch(query, generous) {
		seen[m.Value] = struct{}{}
		cands = append(cands, candidate{
			local: m.Value,
			span:  Span{Start: 0, Len: len(query)},
			rank:  1.0,
		})
	}

	// Supplement with fuzzy matches only when the strict walk cannot fill
	// the limit and the query is long enough to match meaningfully.
	if len(cands) < limit && len(query) >= 3 {
		for _, fm := range r.tree.FuzzySearch(query, generous) {
			if _, dup := seen[fm.Value]; dup {
				continue
			}
			span := Span{}
			if fm.Offset >= 0 {
				span = Span{Start: fm.Offset, Len: fm.Length}
			}
			cands = append(cands, candidate{local: fm.Value, span: span, rank: fm.Quality})
		}
	}
	return cands
}

// sortCandidatesLocked orders cands per sortBy. Ties break on id so results
// are deterministic. Caller holds at least a read lock.
func (r *Registry) sortCandidatesLocked(cands []candidate, sortBy SortBy) {
	metaOf := func(c candidate) *Metadata {
		return &r.entries[r.byLocal[c.local]].meta
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := metaOf(cands[i]), metaOf(cands[j])
		switch sortBy {
		case SortByAlphabetical:
			return a.ID < b.ID
		case SortByRecent:
			if !a.LastSeen.Equal(b.LastSeen) {
				return a.LastSeen.After(b.LastSeen)
			}
			return a.ID < b.ID
		default: // SortByFrequency
			if a.Frequency != b.Frequency {
				return a.Frequency > b.Frequency
			}
			return a.ID < b.ID
		}
	})
}

// Recent returns the front limit entries of the recent list,
// most-recent-first. limit <= 0 returns the whole bounded list.
func (r *Registry) Recent(limit int) []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.recent
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Metadata, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			out = append(out, e.meta)
		}
	}
	return out
}

// Stats returns a point-in-time summary of registry shape.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fs := r.facets.GetStats()
	return Stats{
		EntryCount:    len(r.entries),
		RecentCount:   len(r.recent),
		TreeNodeCount: r.tree.NodeCount(),
		Namespaces:    fs.NamespaceCount,
		Groups:        fs.GroupCount,
		Subgroups:     fs.SubgroupCount,
	}
}

// upsertLocked inserts or replaces meta and keeps the tree and facet index in
// step. Caller holds the write lock.
func (r *Registry) upsertLocked(meta Metadata) (replaced bool) {
	if e, ok := r.entries[meta.ID]; ok {
		e.meta = meta
		r.facets.Set(e.local, facetFields(meta))
		return true
	}
	local := uint32(len(r.byLocal))
	r.byLocal = append(r.byLocal, meta.ID)
	r.entries[meta.ID] = &entry{meta: meta, local: local}
	r.tree.Insert(meta.ID, local)
	r.facets.Set(local, facetFields(meta))
	return false
}

// pushRecentLocked moves id to the front of the recent list, deduplicating
// prior occurrences and evicting the oldest entry past the bound. Caller
// holds the write lock.
func (r *Registry) pushRecentLocked(id string) {
	for i, existing := range r.recent {
		if existing == id {
			copy(r.recent[1:i+1], r.recent[:i])
			r.recent[0] = id
			return
		}
	}
	r.recent = append(r.recent, "")
	copy(r.recent[1:], r.recent)
	r.recent[0] = id
	if len(r.recent) > r.opts.maxRecent {
		r.recent = r.recent[:r.opts.maxRecent]
	}
}

// resetLocked drops all state except options. Caller holds the write lock.
func (r *Registry) resetLocked() {
	r.entries = make(map[string]*entry)
	r.byLocal = nil
	r.tree.Clear()
	r.facets.Clear()
	r.hotCache = nil
}

func facetFields(m Metadata) facet.Fields {
	return facet.Fields{
		Namespace: m.Namespace,
		Group:     m.Group,
		Subgroup:  m.Subgroup,
	}
}
