// Package database handles database connections and schema inspection.
//
// It wraps GORM and picks the dialector from configuration: MySQL, Postgres
// (including a hosted instance through a full connection URL) or SQLite for
// local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let feature stores verify that the table
// they write to has the columns they expect before a run mutates anything.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "seminars", []string{"event_date", "event_time"})
package database
