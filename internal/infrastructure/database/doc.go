// Package database provides SQLite connectivity for Daylight.
//
// The database stores the history of scheduling passes so the daemon can
// restore the last valid schedule after a restart and the API can list
// recent runs.
//
// This package manages:
//   - Connection setup with WAL mode and a busy timeout
//   - An in-memory mode (path ":memory:") for tests and dry runs
//   - Versioned schema migrations registered from the migrations package
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: each file pair YYYYMMDD_HHMMSS_name.{up,down}.sql
// runs in its own transaction and is recorded in schema_migrations.
package database
