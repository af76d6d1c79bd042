// strata generates the migration, entity, repository, service and
// controller layers of the entities described by schema files.
//
// Usage:
//
//	strata generate [flags] [schema paths...]
//	strata watch [flags] [schema paths...]
//	strata check [flags]
//	strata status [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/syssam/strata/compiler"
	"github.com/syssam/strata/compiler/gen"
)

const usage = `usage: strata <command> [flags] [schema paths...]

commands:
  generate  generate the artifacts of the schemas
  watch     regenerate whenever a schema changes
  check     run the migrations against a scratch database
  status    compare generated files with the manifest
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command named by args[0] and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 1
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "strata: unknown command %q\n\n%s", args[0], usage)
		return 1
	}
	fs := flagSet(args[0])
	fs.SetOutput(stderr)
	cfg, err := loadConfig(fs, args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "strata: %v\n", err)
		return 1
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	genCfg, err := gen.NewConfig(cfg.options(log)...)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}
	if err := cmd(ctx, cfg, genCfg, stdout, log); err != nil {
		log.Error(args[0]+" failed", "error", err)
		return 1
	}
	return 0
}

type command func(ctx context.Context, cfg *Config, genCfg *gen.Config, stdout io.Writer, log *slog.Logger) error

var commands = map[string]command{
	"generate": generateCmd,
	"watch":    watchCmd,
	"check":    checkCmd,
	"status":   statusCmd,
}

func generateCmd(ctx context.Context, cfg *Config, genCfg *gen.Config, stdout io.Writer, log *slog.Logger) error {
	if cfg.Skip {
		log.Info("generation skipped")
		return nil
	}
	report, err := compiler.Generate(ctx, genCfg, cfg.Schema...)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Action, r.Path, r.Reason)
	}
	fmt.Fprintf(w, "\ncreated %d, overwritten %d, skipped %d\n",
		report.Count(gen.ActionCreate), report.Count(gen.ActionOverwrite), report.Count(gen.ActionSkip))
	return w.Flush()
}

func watchCmd(ctx context.Context, cfg *Config, genCfg *gen.Config, _ io.Writer, log *slog.Logger) error {
	if cfg.Skip {
		log.Info("generation skipped")
		return nil
	}
	var opts []compiler.WatchOption
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, compiler.WithMetrics(compiler.NewMetrics(reg)))
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
	}
	log.Info("watching schemas", "paths", cfg.Schema)
	return compiler.Watch(ctx, genCfg, cfg.Schema, opts...)
}

func checkCmd(ctx context.Context, cfg *Config, genCfg *gen.Config, stdout io.Writer, _ *slog.Logger) error {
	stats, err := compiler.Check(ctx, genCfg, cfg.Dialect, cfg.DSN)
	fmt.Fprintln(stdout, stats)
	return err
}

func statusCmd(_ context.Context, _ *Config, genCfg *gen.Config, stdout io.Writer, _ *slog.Logger) error {
	status, err := compiler.Status(genCfg)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, st := range status {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.State, st.Layer, st.Entity, st.Target)
	}
	return w.Flush()
}
