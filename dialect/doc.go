// Package dialect names the database dialects that generated migrations
// can be checked against.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// # Usage
//
// Checking the migrations of a resource root against a scratch database:
//
//	import (
//	    "github.com/syssam/strata/dialect"
//	    "github.com/syssam/strata/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.SQLite, "file::memory:")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//	err = sql.NewChecker(drv).Check(ctx, "V1__Create_user_table.sql", script)
package dialect
