// Package persistence implements the snapshot container format for registry
// state.
//
// A snapshot is a single self-describing binary artifact:
//
//	header:  magic, format version, codec name, compression
//	body:    one record per section (entries, recent list, hot cache),
//	         each length-prefixed, individually compressed, and protected
//	         by a CRC32 checksum
//
// The container does not interpret section payloads; they are opaque bytes
// produced by a codec.Codec. Storing the codec name in the header makes
// snapshots readable regardless of the writer's configured default.
//
// Corruption (bad magic, truncated sections, checksum mismatches) surfaces
// as typed errors; malformed input never panics.
package persistence
