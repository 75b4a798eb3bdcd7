// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the publisher
// needs. Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider so that the
// publisher can be tested against the hand-written mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: ensure the target bucket.
//   - PutObject: upload the artifact, the manifest and mirrored assets.
//   - GetObject: read a published artifact back for the preview server.
//   - ListObjects: enumerate the mirror for the publish check.
//   - RemoveObjects: purge stale mirror objects in bulk.
//
// # Object names
//
// Every object lives under Config.Prefix. Key joins the prefix with the remaining
// path elements:
//
//	storage.Key("catalog", "raw", "card", "1_icon_base.png") // catalog/raw/card/1_icon_base.png
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
