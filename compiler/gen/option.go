package gen

import (
	"errors"
	"log/slog"
	"time"
)

// Option configures code generation.
type Option func(*Config) error

// WithMainRoot sets the root directory of generated Go sources.
func WithMainRoot(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("MainRoot", nil, "main root directory cannot be empty")
		}
		c.MainRoot = dir
		return nil
	}
}

// WithResourceRoot sets the root directory of resources such as migrations.
func WithResourceRoot(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ResourceRoot", nil, "resource root directory cannot be empty")
		}
		c.ResourceRoot = dir
		return nil
	}
}

// WithTestRoot sets the root directory of generated tests.
func WithTestRoot(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("TestRoot", nil, "test root directory cannot be empty")
		}
		c.TestRoot = dir
		return nil
	}
}

// WithModule sets the Go import path of the main root.
// For example: "github.com/org/project/internal".
func WithModule(module string) Option {
	return func(c *Config) error {
		if module == "" {
			return NewConfigError("Module", nil, "module cannot be empty")
		}
		c.Module = module
		return nil
	}
}

// WithHeader sets the header comment of base artifacts.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithSkipIfExists sets whether existing extensible artifacts are kept.
func WithSkipIfExists(skip bool) Option {
	return func(c *Config) error {
		c.SkipIfExists = skip
		return nil
	}
}

// WithForce sets whether existing extensible artifacts are overwritten.
func WithForce(force bool) Option {
	return func(c *Config) error {
		c.Force = force
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.FeatureEnabled(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			if !c.FeatureEnabled(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithMigrationAuthor sets the changeset author of default migrations.
func WithMigrationAuthor(author string) Option {
	return func(c *Config) error {
		if author == "" {
			return NewConfigError("MigrationAuthor", nil, "author cannot be empty")
		}
		c.MigrationAuthor = author
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithClock sets the time source used for migration versions.
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		if now == nil {
			return NewConfigError("Now", nil, "clock cannot be nil")
		}
		c.Now = now
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
