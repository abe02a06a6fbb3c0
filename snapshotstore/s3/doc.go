// Package s3 implements snapshotstore.Store for Amazon S3.
//
// Store writes snapshot objects through the S3 transfer manager. For
// deployments with multiple writers, wrap it in DDBLatestStore, which routes
// LATEST pointer updates through DynamoDB conditional writes so concurrent
// commits cannot clobber each other.
//
//	client, err := s3.NewClientFromEnv(ctx)
//	...
//	store := s3.NewStore(client, "my-bucket", "eid-registry/")
//	history := snapshotstore.NewHistory(store)
package s3
