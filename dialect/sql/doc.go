// Package sql opens databases of the supported dialects and checks
// generated migrations against them.
//
// # Migration scripts
//
// Migrations are liquibase formatted SQL files:
//
//	--liquibase formatted sql
//
//	--changeset author:1
//	CREATE TABLE users (
//	    id BIGINT NOT NULL PRIMARY KEY
//	);
//
//	--rollback DROP TABLE users;
//
// SplitMigration returns the up statements and the rollback statements
// of such a script.
//
// # Checking
//
// A Checker runs the up statements and then the rollback statements of a
// migration in a transaction that is rolled back at the end:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/scratch?sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	checker := sql.NewChecker(drv, sql.WithLogger(logger))
//	if err := checker.Check(ctx, name, script); err != nil {
//	    var cerr *sql.CheckError
//	    if errors.As(err, &cerr) {
//	        fmt.Println(cerr.Phase, cerr.Statement, cerr.Code)
//	    }
//	}
package sql
