// Package database opens the SQL database the catalog is exported to and inspects its
// schema.
//
// # Connect
//
// Connect opens a GORM connection for the configured driver:
//
//   - mysql: a TCP DSN built from host, port, user, password and name, with connection,
//     read and write timeouts.
//   - sqlite: name is the database file (or ":memory:"); the pool is limited to one
//     connection.
//
// The connection is verified with a ping before it is returned.
//
// # Schema inspection
//
// GetTableColumns reads the live column list of a table (SHOW COLUMNS on MySQL,
// PRAGMA table_info on SQLite). MissingColumns compares it with the columns a model
// expects; the export feature uses it to verify the catalog tables after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "catalog_entities", []string{"kind", "entity_id"})
package database
