package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/compiler/load"
)

// DefaultDebounce is the quiet period Watch waits for after the last
// schema change before it regenerates.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onRun    func(*gen.Report, error)
	metrics  *Metrics
}

// WithDebounce sets the quiet period after a change. Default is 200ms.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithOnRun sets a callback invoked after every generation run.
func WithOnRun(fn func(*gen.Report, error)) WatchOption {
	return func(c *watchConfig) {
		c.onRun = fn
	}
}

// WithMetrics records every generation run in m.
func WithMetrics(m *Metrics) WatchOption {
	return func(c *watchConfig) {
		c.metrics = m
	}
}

// Watch generates the artifacts of the given schema paths, then watches
// them and regenerates whenever a schema file is written, created, removed
// or renamed. Runs never overlap: events arriving during a run start the
// next one after it ends. A failing run is logged and watching goes on.
// Watch returns nil when ctx is done.
func Watch(ctx context.Context, cfg *gen.Config, paths []string, opts ...WatchOption) error {
	wc := &watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(wc)
	}
	if len(paths) == 0 {
		return gen.NewConfigError("paths", nil, "at least one schema path is required")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("compiler: create watcher: %w", err)
	}
	defer w.Close()
	match, err := watchPaths(w, paths)
	if err != nil {
		return err
	}
	log := logger(cfg)
	run := func() {
		start := time.Now()
		report, err := Generate(ctx, cfg, paths...)
		if wc.metrics != nil {
			wc.metrics.Observe(report, err, time.Since(start))
		}
		switch {
		case err != nil:
			log.ErrorContext(ctx, "generation failed", "error", err)
		default:
			log.InfoContext(ctx, "generation finished",
				"create", report.Count(gen.ActionCreate),
				"overwrite", report.Count(gen.ActionOverwrite),
				"skip", report.Count(gen.ActionSkip))
		}
		if wc.onRun != nil {
			wc.onRun(report, err)
		}
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !match(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			log.DebugContext(ctx, "schema changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(wc.debounce)
			} else {
				timer.Reset(wc.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WarnContext(ctx, "watch error", "error", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}

// watchPaths adds the directories of paths to w. The returned function
// reports whether an event path names a watched schema file: any schema
// file of a watched directory, or one of the given files.
func watchPaths(w *fsnotify.Watcher, paths []string) (func(string) bool, error) {
	dirs := make(map[string]bool)
	files := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &load.Error{File: p, Message: "stat", Cause: err}
		}
		dir := filepath.Clean(p)
		if !info.IsDir() {
			files[dir] = true
			dir = filepath.Dir(dir)
		} else {
			dirs[dir] = true
		}
		if err := w.Add(dir); err != nil {
			return nil, fmt.Errorf("compiler: watch %s: %w", dir, err)
		}
	}
	return func(name string) bool {
		name = filepath.Clean(name)
		return files[name] || (dirs[filepath.Dir(name)] && load.IsSchemaFile(name))
	}, nil
}
