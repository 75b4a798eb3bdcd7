// Package catalog serves a built catalog over HTTP for previewing.
//
// The pipeline itself lives in the sub-packages:
//
//   - schema: per-kind summary and detail parsing of upstream documents.
//   - collection: the builder that fetches every kind and closes references.
//   - graph: the lazy reference resolver, asset paths and the asset manifest.
//   - artifact: the deterministic serializer with shared identity.
//   - export: the SQL export of a resolved graph.
//
// This package only reads what a build produced. A Source supplies the artifact
// and the manifest by name, either from a directory (DirSource) or from the
// publish bucket. The Service decodes the artifact into a snapshot and the
// Handler exposes it:
//
//	GET  /catalog/assets?type=card   asset manifest entries
//	GET  /catalog/data.json          the artifact as written
//	POST /catalog/reload             reread the source
//	GET  /catalog/:kind              ids of one kind, ascending
//	GET  /catalog/:kind/:id          one decoded record
package catalog
