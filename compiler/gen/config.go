package gen

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/mod/modfile"
)

// Config holds the global configuration of a generation run.
type Config struct {
	// MainRoot is the root directory of generated Go sources.
	MainRoot string
	// ResourceRoot is the root of non-Go resources. Migrations are written
	// to <ResourceRoot>/db/migration.
	ResourceRoot string
	// TestRoot is the root of generated tests. Defaults to MainRoot.
	TestRoot string
	// Module is the Go module path of MainRoot. If empty it is read from
	// the nearest go.mod above MainRoot.
	Module string
	// Header overrides the header comment of base artifacts.
	Header string
	// SkipIfExists keeps existing extensible artifacts untouched.
	SkipIfExists bool
	// Force overwrites existing extensible artifacts. It takes precedence
	// over SkipIfExists.
	Force bool
	// Features holds the enabled optional features.
	Features []Feature
	// MigrationAuthor is the author of the changeset in default migrations.
	MigrationAuthor string
	// Logger receives one record per artifact decision.
	Logger *slog.Logger
	// Now returns the current time. Used for migration versions.
	Now func() time.Time
}

// NewConfig returns a Config with defaults applied, then the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		SkipIfExists:    true,
		MigrationAuthor: DefaultMigrationAuthor,
	}
	for _, f := range AllFeatures {
		if f.Default {
			c.Features = append(c.Features, f)
		}
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultMigrationAuthor is the changeset author of default migrations.
const DefaultMigrationAuthor = "author"

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool {
		return f.Name == name
	})
}

// Policy returns the override policy of the configuration.
func (c *Config) Policy() Policy {
	return Policy{SkipIfExists: c.SkipIfExists, Force: c.Force}
}

// MigrationDir returns the directory holding the migration files.
func (c *Config) MigrationDir() string {
	return filepath.Join(c.ResourceRoot, "db", "migration")
}

// RootDir returns the directory of the given root.
func (c *Config) RootDir(r Root) string {
	switch r {
	case RootResource:
		return c.ResourceRoot
	case RootTest:
		return c.testRoot()
	default:
		return c.MainRoot
	}
}

func (c *Config) testRoot() string {
	if c.TestRoot != "" {
		return c.TestRoot
	}
	return c.MainRoot
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// validate checks the configuration before any schema is processed.
func (c *Config) validate() error {
	switch {
	case c.MainRoot == "":
		return NewConfigError("MainRoot", nil, "main root directory is required")
	case c.ResourceRoot == "":
		return NewConfigError("ResourceRoot", nil, "resource root directory is required")
	}
	return nil
}

// resolveModule returns the import path of MainRoot. An explicit Module is
// taken as the import path of MainRoot itself. Otherwise the nearest go.mod
// above MainRoot is searched and the relative path appended to its module.
func (c *Config) resolveModule() (string, error) {
	if c.Module != "" {
		return c.Module, nil
	}
	root, err := filepath.Abs(c.MainRoot)
	if err != nil {
		return "", NewConfigError("MainRoot", c.MainRoot, err.Error())
	}
	for dir := root; ; dir = filepath.Dir(dir) {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", NewConfigError("Module", nil, "go.mod in "+dir+" declares no module")
			}
			rel, err := filepath.Rel(dir, root)
			if err != nil {
				return "", NewConfigError("MainRoot", root, err.Error())
			}
			if rel == "." {
				return mod, nil
			}
			return mod + "/" + filepath.ToSlash(rel), nil
		}
		if filepath.Dir(dir) == dir {
			return "", NewConfigError("Module", nil, "no go.mod found above "+root+"; set the module path explicitly")
		}
	}
}
