package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"

	"github.com/syssam/strata/dialect"
)

// TxOptions holds the transaction options to be used in DB.BeginTx.
type TxOptions = sql.TxOptions

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is a database handle tagged with its dialect.
type Driver struct {
	db      *sql.DB
	dialect string
}

// Open opens a database of the given dialect. The database/sql driver is
// chosen from the dialect: modernc.org/sqlite, lib/pq or go-sql-driver/mysql.
func Open(name, source string) (*Driver, error) {
	if err := dialect.Validate(name); err != nil {
		return nil, err
	}
	if name == dialect.MySQL {
		cfg, err := mysql.ParseDSN(source)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: parse mysql dsn: %w", err)
		}
		// Statements of a migration are executed one at a time.
		cfg.MultiStatements = false
		cfg.ParseTime = true
		source = cfg.FormatDSN()
	}
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(name, db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(name string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: name}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.db
}

// Dialect returns the dialect of the driver.
func (d *Driver) Dialect() string {
	// If the underlying driver is wrapped with a telemetry driver.
	for _, name := range dialect.Dialects {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Ping verifies that the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("dialect/sql: ping %s: %w", d.Dialect(), err)
	}
	return nil
}

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*sql.Tx, error) {
	return d.db.BeginTx(ctx, opts)
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.db.Close() }

// ErrorCode returns the vendor error code of err, or an empty string if
// err does not come from one of the supported drivers.
func ErrorCode(err error) string {
	var (
		pqErr    *pq.Error
		myErr    *mysql.MySQLError
		sqliteEr *sqlite.Error
	)
	switch {
	case errors.As(err, &pqErr):
		return string(pqErr.Code)
	case errors.As(err, &myErr):
		return fmt.Sprint(myErr.Number)
	case errors.As(err, &sqliteEr):
		return fmt.Sprint(sqliteEr.Code())
	default:
		return ""
	}
}
