// Package eidgo provides an embedded discovery index for hierarchical event
// identifiers (EIDs).
//
// An EID is a dotted string key such as "pandc.vnext.recommendations.feed".
// The registry lets a caller type a few characters and receive ranked,
// filterable suggestions out of a working set of tens of thousands of
// identifiers in sub-millisecond time, while tracking which identifiers are
// hot (frequently and recently used) and which were used most recently.
//
// Features:
//
//   - Compressed radix tree for prefix search, with fuzzy fallback
//     (substring and bounded edit distance) for near-miss queries
//   - Roaring Bitmap inverted index for namespace/group filtering
//   - Hot scoring blending usage frequency with exponential recency decay,
//     plus a Rising/Stable/Falling trend per identifier
//   - Bounded most-recently-used list
//   - Derived namespace -> group -> subgroup hierarchy view
//   - Self-describing binary snapshots with per-section compression
//     (zstd, lz4) and CRC32 integrity checks
//   - Pluggable snapshot stores (memory, local disk, S3, MinIO)
//
// # Quick Start
//
// Create a registry and bulk-load identifier metadata:
//
//	ctx := context.Background()
//	r := eidgo.New()
//	if err := r.Initialize(ctx, records); err != nil {
//	    panic(err)
//	}
//
// Search with filters and sorting:
//
//	suggestions := r.Search("pandc.vnext.rec", func(o *eidgo.SearchOptions) {
//	    o.Limit = 20
//	    o.FilterByNamespace = "pandc"
//	    o.SortBy = eidgo.SortByFrequency
//	})
//
// Record usage as events fire; unknown ids are a safe no-op:
//
//	r.RecordUsage("pandc.vnext.recommendations.feed")
//
// Inspect hotness and recency:
//
//	hot := r.Hot(10)
//	recent := r.Recent(10)
//
// Persist across sessions:
//
//	if err := r.SaveToFile(ctx, "registry.snap"); err != nil {
//	    panic(err)
//	}
//	r2, err := eidgo.NewFromFile(ctx, "registry.snap")
package eidgo
