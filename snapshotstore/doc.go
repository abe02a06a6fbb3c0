// Package snapshotstore provides storage backends for registry snapshots.
//
// Store is the interface for reading and writing whole snapshot objects.
// History layers versioned snapshots with a LATEST pointer on top of any
// Store, so a restarting process can load the newest state with one call.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic rename
//   - s3.Store: Amazon S3, with an optional DynamoDB latest pointer for
//     safe concurrent writers
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Usage
//
//	store := snapshotstore.NewLocalStore("./snapshots")
//	history := snapshotstore.NewHistory(store)
//
//	name, err := history.Save(ctx, registry)
//	...
//	registry, err := history.LoadLatest(ctx)
package snapshotstore
