// Package export writes a resolved catalog into a SQL database through GORM.
//
// Two tables are maintained:
//
//   - catalog_entities: one row per record of the six kinds, with the jp and en names
//     and the flat record as a JSON payload (gorm.io/datatypes).
//   - catalog_assets: one row per asset manifest entry.
//
// Export replaces both tables in a single transaction, so readers see either the previous
// catalog or the new one. Verify checks that the live tables carry every column the models
// expect.
//
// AssetSource reads catalog_assets back as a reconcile source, so publish check can
// compare the exported rows with the manifest and the storage mirror.
package export
