// Package prefixtree implements a compressed radix tree (PATRICIA-style trie)
// mapping string keys to opaque values.
//
// The tree stores nodes in a single growable slice and references children by
// int32 index instead of pointers. This keeps the structure compact, cache
// friendly, and free of reference cycles, and makes teardown a single slice
// release.
//
// Edges carry multi-character labels; a node with exactly one child is merged
// with that child's edge label, so tree depth is bounded by the number of
// branching points rather than by key length. Lookup and prefix enumeration
// cost depends on key/query length, not on the number of stored keys.
//
// Three query types are supported:
//
//   - Get: exact key lookup
//   - PrefixSearch: all keys starting with a prefix, insertion-stable order
//   - FuzzySearch: case-insensitive substring and bounded edit-distance
//     matching, used as a fallback when a prefix query is too strict
//
// The tree is domain agnostic: keys are arbitrary strings and values are a
// type parameter. An embedded per-key hit counter (Bump) is available to
// callers that want popularity tie-breaking without a side table.
//
// Tree is not safe for concurrent use; callers synchronize externally.
package prefixtree
