// Package compiler provides the entry points of strata: generating the
// layered artifacts of a set of schema files, regenerating them on change
// and checking the generated migrations against a database.
//
//	cfg, err := gen.NewConfig(
//	    gen.WithMainRoot("internal"),
//	    gen.WithResourceRoot("resources"),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := compiler.Generate(ctx, cfg, "schema")
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/compiler/gen/layer"
	"github.com/syssam/strata/compiler/load"
	"github.com/syssam/strata/dialect/sql"
)

// Generate loads the schemas of the given files and directories and
// generates their artifacts.
func Generate(ctx context.Context, cfg *gen.Config, paths ...string) (*gen.Report, error) {
	if len(paths) == 0 {
		return nil, gen.NewConfigError("paths", nil, "at least one schema path is required")
	}
	schemas, err := load.LoadPaths(ctx, paths...)
	if err != nil {
		return nil, err
	}
	g, err := gen.NewGraph(cfg, schemas...)
	if err != nil {
		return nil, err
	}
	return layer.Generate(ctx, g)
}

// Check runs every migration of the migration directory against the
// database, in version order. Each migration is applied and rolled back
// on its own; the failures of all migrations are joined. With the
// migration/sum feature the directory must match its atlas.sum first.
func Check(ctx context.Context, cfg *gen.Config, dialectName, dsn string, opts ...sql.CheckOption) (sql.StatsSnapshot, error) {
	path := cfg.MigrationDir()
	if _, err := os.Stat(path); err != nil {
		return sql.StatsSnapshot{}, fmt.Errorf("compiler: migration directory: %w", err)
	}
	dir, err := gen.OpenMigrationDir(path)
	if err != nil {
		return sql.StatsSnapshot{}, err
	}
	if cfg.FeatureEnabled(gen.FeatureMigrationSum.Name) {
		if err := dir.Validate(); err != nil {
			return sql.StatsSnapshot{}, fmt.Errorf("compiler: migration checksums: %w", err)
		}
	}
	files, err := dir.Files()
	if err != nil {
		return sql.StatsSnapshot{}, fmt.Errorf("compiler: read migrations: %w", err)
	}
	drv, err := sql.Open(dialectName, dsn)
	if err != nil {
		return sql.StatsSnapshot{}, err
	}
	defer drv.Close()
	if err := drv.Ping(ctx); err != nil {
		return sql.StatsSnapshot{}, err
	}
	checker := sql.NewChecker(drv, append([]sql.CheckOption{sql.WithLogger(logger(cfg))}, opts...)...)
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return checker.Stats().Stats(), err
		}
		if err := checker.Check(ctx, f.Name(), string(f.Bytes())); err != nil {
			errs = append(errs, err)
		}
	}
	return checker.Stats().Stats(), errors.Join(errs...)
}

// State describes a recorded artifact compared to the file on disk.
type State uint8

const (
	// StateClean means the file matches what the generator wrote.
	StateClean State = iota
	// StateModified means the file was edited since it was generated.
	StateModified
	// StateMissing means the file no longer exists.
	StateMissing
)

var stateNames = [...]string{
	StateClean:    "clean",
	StateModified: "modified",
	StateMissing:  "missing",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

// FileStatus is the state of one artifact recorded in the manifest.
type FileStatus struct {
	*gen.ManifestEntry
	// Target is the location of the file.
	Target string
	State  State
}

// Status compares the artifacts recorded in the manifest with the files
// on disk. The result is ordered by root and path.
func Status(cfg *gen.Config) ([]*FileStatus, error) {
	m, err := gen.ReadManifest(filepath.Join(cfg.MainRoot, gen.ManifestFile))
	if err != nil {
		return nil, err
	}
	var status []*FileStatus
	for _, e := range m.Sorted() {
		st := &FileStatus{ManifestEntry: e, Target: filepath.Join(cfg.RootDir(e.Root), e.Path)}
		data, err := os.ReadFile(st.Target)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			st.State = StateMissing
		case err != nil:
			return nil, fmt.Errorf("compiler: read %s: %w", st.Target, err)
		case e.Checksum != gen.Checksum(data):
			st.State = StateModified
		}
		status = append(status, st)
	}
	return status, nil
}

func logger(cfg *gen.Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
