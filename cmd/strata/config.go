package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/dialect"
)

// Config holds the command configuration. Values come from flags, STRATA_*
// environment variables and strata.yaml, in that order of precedence.
type Config struct {
	Schema       []string `mapstructure:"schema"`
	MainRoot     string   `mapstructure:"main-root"`
	ResourceRoot string   `mapstructure:"resource-root"`
	TestRoot     string   `mapstructure:"test-root"`
	Module       string   `mapstructure:"module"`
	Header       string   `mapstructure:"header"`
	SkipIfExists bool     `mapstructure:"skip-if-exists"`
	Force        bool     `mapstructure:"force"`
	Features     []string `mapstructure:"features"`
	Author       string   `mapstructure:"author"`
	// Skip turns generate into a no-op.
	Skip    bool   `mapstructure:"skip"`
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
	Verbose bool   `mapstructure:"verbose"`
	// MetricsAddr is the listen address of the metrics endpoint of watch.
	MetricsAddr string `mapstructure:"metrics-addr"`
}

// setDefaults registers every key, so that environment variables are
// picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("schema", []string{"schema"})
	v.SetDefault("main-root", "internal")
	v.SetDefault("resource-root", "resources")
	v.SetDefault("test-root", "")
	v.SetDefault("module", "")
	v.SetDefault("header", "")
	v.SetDefault("force", false)
	v.SetDefault("features", []string{})
	v.SetDefault("skip", false)
	v.SetDefault("verbose", false)
	v.SetDefault("metrics-addr", "")
	v.SetDefault("skip-if-exists", true)
	v.SetDefault("author", gen.DefaultMigrationAuthor)
	v.SetDefault("dialect", dialect.SQLite)
	v.SetDefault("dsn", ":memory:")
}

// flagSet returns the flags of the named command.
func flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "configuration file (default strata.yaml)")
	fs.String("main-root", "", "root directory of generated Go sources")
	fs.String("resource-root", "", "root directory of migrations")
	fs.String("test-root", "", "root directory of generated tests (default main root)")
	fs.String("module", "", "import path of the main root (default from go.mod)")
	fs.String("header", "", "header comment of base files")
	fs.Bool("skip-if-exists", true, "keep existing extensible files")
	fs.BoolP("force", "f", false, "overwrite existing extensible files")
	fs.StringSlice("features", nil, "optional features to enable")
	fs.String("author", "", "changeset author of default migrations")
	fs.Bool("skip", false, "skip generation")
	fs.String("dialect", "", "dialect of the check database: "+strings.Join(dialect.Dialects, ", "))
	fs.String("dsn", "", "data source name of the check database")
	fs.BoolP("verbose", "v", false, "log debug records")
	fs.String("metrics-addr", "", "serve Prometheus metrics of watch on this address")
	return fs
}

// loadConfig parses args with fs and merges them with the environment and
// the configuration file. Positional arguments replace the schema paths.
func loadConfig(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Visit walks the set flags only, so defaults never shadow the
	// configuration file.
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = bindFlag(v, f.Name, f)
	})
	if bindErr != nil {
		return nil, bindErr
	}
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("strata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if fs.NArg() > 0 {
		cfg.Schema = fs.Args()
	}
	return &cfg, nil
}

// options returns the generator options of the configuration.
func (c *Config) options(log *slog.Logger) []gen.Option {
	opts := []gen.Option{
		gen.WithMainRoot(c.MainRoot),
		gen.WithResourceRoot(c.ResourceRoot),
		gen.WithHeader(c.Header),
		gen.WithSkipIfExists(c.SkipIfExists),
		gen.WithForce(c.Force),
		gen.WithFeatureNames(c.Features...),
		gen.WithMigrationAuthor(c.Author),
		gen.WithLogger(log),
	}
	if c.TestRoot != "" {
		opts = append(opts, gen.WithTestRoot(c.TestRoot))
	}
	if c.Module != "" {
		opts = append(opts, gen.WithModule(c.Module))
	}
	return opts
}

func bindFlag(v *viper.Viper, key string, f *pflag.Flag) error {
	if err := v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind flag %s: %w", key, err)
	}
	return nil
}
