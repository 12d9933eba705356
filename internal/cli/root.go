// Package cli implements recipectl, a terminal client for the recipe
// catalog. Commands work against the embedded sample data, or against a
// SQLite database when --db is set.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/findosh/myrecipes/internal/logging"
	"github.com/findosh/myrecipes/internal/storage"
	"github.com/findosh/myrecipes/internal/storage/seed"
)

const name = "recipectl"

// overridden during build with ldflags
var version = "dev"

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   formatTable,
		Usage:   "output format (table, json, yaml)",
	}
}

// Execute runs recipectl with the process arguments and exits non-zero on
// failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewCommand builds the root command writing results to out.
func NewCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Browse recipes, video lessons and plans",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database file; the embedded sample data is used when empty",
				Sources: cli.EnvVars("MYRECIPES_DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLogger(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			searchCmd(),
			videosCmd(),
			plansCmd(),
			cookCmd(),
			importCmd(),
			statsCmd(),
			seedCmd(),
		},
	}
}

// openRepositories returns seeded repositories for the --db flag value.
func openRepositories(ctx context.Context, dbPath string) (storage.Repositories, func(), error) {
	var (
		repos   storage.Repositories
		release = func() {}
	)
	if dbPath == "" {
		repos = storage.NewMemory()
	} else {
		db, err := storage.New(dbPath)
		if err != nil {
			return storage.Repositories{}, nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return storage.Repositories{}, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		repos = storage.NewSQLite(db)
		release = func() { _ = db.Close() }
	}

	if err := seed.Seed(ctx, repos); err != nil {
		release()
		return storage.Repositories{}, nil, fmt.Errorf("failed to seed: %w", err)
	}
	return repos, release, nil
}

// encode writes v as JSON or YAML. It reports false for the table format so
// the caller renders its own table.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case formatTable, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format: %q", format)
	}
}
