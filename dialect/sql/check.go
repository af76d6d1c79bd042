package sql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// rollbackPrefix marks the rollback statements of a liquibase formatted
// migration.
const rollbackPrefix = "--rollback"

// Script holds the statements of one migration.
type Script struct {
	// Up holds the statements applying the migration.
	Up []string
	// Down holds the rollback statements.
	Down []string
}

// SplitMigration splits a migration into its statements. Lines starting
// with "--rollback" hold rollback statements; other comment lines are
// dropped. Statements end with a semicolon outside of quoted text.
func SplitMigration(script string) Script {
	var up, down strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(script, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, rollbackPrefix):
			down.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, rollbackPrefix)))
			down.WriteByte('\n')
		case strings.HasPrefix(trimmed, "--"), trimmed == "":
		default:
			up.WriteString(line)
			up.WriteByte('\n')
		}
	}
	return Script{Up: splitStatements(up.String()), Down: splitStatements(down.String())}
}

// splitStatements splits text on semicolons that are not part of a quoted
// string or identifier. A trailing statement without a semicolon is kept.
func splitStatements(text string) []string {
	var (
		stmts []string
		quote rune
		start int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	for i, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == ';':
			add(text[start:i])
			start = i + 1
		}
	}
	add(text[start:])
	return stmts
}

// CheckError is returned by Check when a statement of a migration fails.
type CheckError struct {
	// Migration is the name of the migration.
	Migration string
	// Phase is "up" or "down".
	Phase string
	// Statement is the failing statement.
	Statement string
	// Code is the vendor error code, if known.
	Code  string
	Cause error
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var b strings.Builder
	b.WriteString("dialect/sql: check")
	if e.Migration != "" {
		fmt.Fprintf(&b, " %s", e.Migration)
	}
	fmt.Fprintf(&b, ": %s statement %q", e.Phase, e.Statement)
	if e.Code != "" {
		fmt.Fprintf(&b, " (code %s)", e.Code)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// IsCheckError returns true if the error is a CheckError.
func IsCheckError(err error) bool {
	var e *CheckError
	return errors.As(err, &e)
}

// Checker applies migrations to a scratch database to verify them. Each
// migration runs its up statements, then its rollback statements, inside
// a transaction that is always rolled back.
//
// Dialects without transactional DDL (MySQL) commit every statement; the
// rollback statements leave the database as it was if they are correct.
type Checker struct {
	drv           *Driver
	log           *slog.Logger
	stats         *CheckStats
	slowThreshold time.Duration
	slowHook      SlowStatementHook
}

// NewChecker returns a Checker running migrations against drv.
//
// Example:
//
//	drv, _ := sql.Open(dialect.SQLite, "file::memory:")
//	checker := sql.NewChecker(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithLogger(logger),
//	)
//	err := checker.Check(ctx, name, script)
//	fmt.Println(checker.Stats().Stats())
func NewChecker(drv *Driver, opts ...CheckOption) *Checker {
	c := &Checker{
		drv:           drv,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats:         &CheckStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns the statistics of the checker.
func (c *Checker) Stats() *CheckStats {
	return c.stats
}

// Check verifies one migration. A failing statement is reported as a
// *CheckError.
func (c *Checker) Check(ctx context.Context, name, script string) error {
	s := SplitMigration(script)
	if len(s.Up) == 0 {
		return &CheckError{Migration: name, Phase: "up", Cause: errors.New("migration has no statements")}
	}
	tx, err := c.drv.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dialect/sql: begin transaction: %w", err)
	}
	defer func() {
		// The rollback error of a committed MySQL transaction is expected.
		_ = tx.Rollback()
	}()
	c.stats.Migrations.Add(1)
	for _, phase := range []struct {
		name  string
		stmts []string
	}{{"up", s.Up}, {"down", s.Down}} {
		for _, stmt := range phase.stmts {
			if err := c.exec(ctx, tx, stmt); err != nil {
				return &CheckError{Migration: name, Phase: phase.name, Statement: stmt, Code: ErrorCode(err), Cause: err}
			}
		}
	}
	c.log.InfoContext(ctx, "migration checked", "migration", name, "dialect", c.drv.Dialect(),
		"up", len(s.Up), "down", len(s.Down))
	return nil
}

func (c *Checker) exec(ctx context.Context, ex ExecQuerier, stmt string) error {
	start := time.Now()
	_, err := ex.ExecContext(ctx, stmt)
	c.record(ctx, stmt, start, err)
	return err
}

// CheckMigration verifies one migration against drv with a default checker.
func CheckMigration(ctx context.Context, drv *Driver, script string) error {
	return NewChecker(drv).Check(ctx, "", script)
}
