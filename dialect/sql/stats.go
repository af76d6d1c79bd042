package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// CheckStats holds statement execution statistics of a checker.
type CheckStats struct {
	// Migrations is the number of checked migrations.
	Migrations atomic.Int64
	// Statements is the total number of executed statements.
	Statements atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowStatements is the count of statements exceeding the slow threshold.
	SlowStatements atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *CheckStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Migrations:     s.Migrations.Load(),
		Statements:     s.Statements.Load(),
		TotalDuration:  time.Duration(s.TotalDuration.Load()),
		SlowStatements: s.SlowStatements.Load(),
		Errors:         s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *CheckStats) Reset() {
	s.Migrations.Store(0)
	s.Statements.Store(0)
	s.TotalDuration.Store(0)
	s.SlowStatements.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of check statistics.
type StatsSnapshot struct {
	Migrations     int64
	Statements     int64
	TotalDuration  time.Duration
	SlowStatements int64
	Errors         int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.Statements == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Statements)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"migrations=%d statements=%d duration=%s avg=%s slow=%d errors=%d",
		s.Migrations, s.Statements, s.TotalDuration, s.AvgDuration(),
		s.SlowStatements, s.Errors,
	)
}

// SlowStatementHook is a function called when a slow statement is detected.
type SlowStatementHook func(ctx context.Context, statement string, duration time.Duration)

// CheckOption configures the Checker.
type CheckOption func(*Checker)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) CheckOption {
	return func(c *Checker) {
		c.slowThreshold = d
	}
}

// WithSlowStatementHook sets a callback function for slow statements.
func WithSlowStatementHook(hook SlowStatementHook) CheckOption {
	return func(c *Checker) {
		c.slowHook = hook
	}
}

// WithLogger sets the logger of the checker. Slow statements are logged
// at warn level, checked migrations at info level.
func WithLogger(l *slog.Logger) CheckOption {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

func (c *Checker) record(ctx context.Context, statement string, start time.Time, err error) {
	duration := time.Since(start)
	c.stats.Statements.Add(1)
	c.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		c.stats.Errors.Add(1)
	}
	if duration > c.slowThreshold {
		c.stats.SlowStatements.Add(1)
		c.log.WarnContext(ctx, "slow statement detected", "duration", duration, "statement", statement)
		if c.slowHook != nil {
			c.slowHook(ctx, statement, duration)
		}
	}
}
