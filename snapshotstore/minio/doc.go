// Package minio implements snapshotstore.Store for MinIO and other
// S3-compatible object stores.
//
//	client, err := minio.New("play.min.io", &minio.Options{...})
//	...
//	store := miniostore.NewStore(client, "my-bucket", "eid-registry/")
package minio
