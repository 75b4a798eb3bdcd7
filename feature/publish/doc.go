// Package publish pushes a built catalog to object storage.
//
// A publication consists of three parts, all stored under the configured prefix
// of the storage bucket:
//
//   - data.json: the serialized catalog artifact.
//   - manifest.json: the asset manifest enumerating every downstream asset.
//   - raw/<type>/<stem><ext>: a mirror of each manifest source asset, fetched
//     through the cached upstream client and uploaded with its source extension.
//
// # Publisher
//
//	p := publish.NewPublisher(store, cfg.Storage, client, logger)
//	err := p.Publish(ctx, artifact, manifest)
//	res, err := p.Mirror(ctx, entries)
//	report, err := p.Check(ctx, entries, reconcile.Options{})
//
// Check runs core/reconcile with the manifest as the expected source and the
// mirror (one recursive listing) plus any extra sources as targets. It reports the
// manifest entries without an object, so a partial mirror can be resumed by
// re-running Mirror with report.Missing, and the stale objects the manifest no
// longer references. Stale objects are purged only when the options confirm it.
//
// Read returns a published object, which lets the preview server run from the
// bucket instead of local files.
package publish
