// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL (pgx) and
// SQLite connections based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies connection timeouts and
// pool settings, and verifies the connection with a ping.
//
// # Schema Inspection
//
// GetTableColumns reads a table's column definitions (SHOW COLUMNS, PRAGMA
// table_info or information_schema) and TableSchema turns them into a strongly
// typed tuple schema, which is what SQL streams report before they are opened.
//
// # Usage
//
//	db, err := database.Connect(cfg.Compare.Left.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	schema, err := database.TableSchema(db, "ledger")
package database
