// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so archive code can
// be tested against core/storage/mocks. Both AWS S3 and self-hosted MinIO work.
//
// # Operations
//
//   - BucketExists / MakeBucket: make sure the archive bucket exists.
//   - PutObject / GetObject: write and read archived pages and reports.
//   - ListObjects: list archived runs under a prefix.
//   - RemoveObjects: prune runs past the retention window.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
