// Package main is the entry point for the ftplake binary.
//
// ftplake fetches a dated order export from an FTP host and loads it into a
// partitioned BigQuery table. `serve` runs the trigger surface (HTTP push,
// optional pull subscriber, optional cron); `run` fires one invocation from
// the command line.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"ftplake/internal/app"
	"ftplake/internal/config"
	"ftplake/internal/domain"
	"ftplake/internal/runlog"
)

func main() {
	root := &cobra.Command{
		Use:           "ftplake",
		Short:         "FTP to BigQuery daily export loader",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the trigger endpoints until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			deps, cleanup, err := buildDeps(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return app.New(deps).Run(ctx)
		},
	}
}

func runCmd() *cobra.Command {
	var (
		command   string
		attrs     map[string]string
		attrsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fire a single invocation with the given trigger attributes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			merged, err := mergeAttributes(attrsFile, attrs)
			if err != nil {
				return err
			}

			deps, cleanup, err := buildDeps(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			res := app.New(deps).Pipeline.Run(ctx, command, merged)
			fmt.Println(res.Status)
			if !res.OK() {
				return fmt.Errorf("%s stage: %w", res.Stage, res.Err)
			}
			return nil
		},
	}

	addRunFlags(cmd.Flags(), &command, &attrs, &attrsFile)
	return cmd
}

func addRunFlags(fs *pflag.FlagSet, command *string, attrs *map[string]string, attrsFile *string) {
	fs.StringVar(command, "command", domain.CommandGetFTPData, "trigger command")
	fs.StringToStringVar(attrs, "attr", nil, "trigger attribute (repeatable, key=value)")
	fs.StringVar(attrsFile, "attributes-file", "", "YAML file with trigger attributes")
}

// mergeAttributes loads the optional attributes file and overlays --attr
// values on top of it.
func mergeAttributes(path string, flags map[string]string) (map[string]string, error) {
	merged := make(map[string]string)
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
		if err != nil {
			return nil, fmt.Errorf("read attributes file: %w", err)
		}
		if err := yaml.Unmarshal(data, &merged); err != nil {
			return nil, fmt.Errorf("parse attributes file: %w", err)
		}
	}
	for k, v := range flags {
		merged[k] = v
	}
	return merged, nil
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}

// buildDeps constructs the cloud clients and the run-log database. The
// returned cleanup closes everything that was opened.
func buildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	project := cfg.ProjectID
	if project == "" {
		project = bigquery.DetectProjectID
	}
	bq, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return app.Deps{}, nil, fmt.Errorf("bigquery client: %w", err)
	}
	closers = append(closers, func() { _ = bq.Close() })

	deps := app.Deps{Cfg: cfg, Logger: logger, BigQuery: bq}

	if cfg.ArchiveBucket != "" {
		gcs, err := storage.NewClient(ctx)
		if err != nil {
			cleanup()
			return app.Deps{}, nil, fmt.Errorf("storage client: %w", err)
		}
		closers = append(closers, func() { _ = gcs.Close() })
		deps.Storage = gcs
	}

	if cfg.PubSubSubscription != "" {
		ps, err := pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			cleanup()
			return app.Deps{}, nil, fmt.Errorf("pubsub client: %w", err)
		}
		closers = append(closers, func() { _ = ps.Close() })
		deps.PubSub = ps
	}

	if cfg.RunLogPath != "" {
		db, err := openRunLog(cfg.RunLogPath)
		if err != nil {
			cleanup()
			return app.Deps{}, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		deps.RunDB = db
	}

	return deps, cleanup, nil
}

func openRunLog(path string) (*sql.DB, error) {
	db, err := runlog.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := runlog.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate run log: %w", err)
	}
	return db, nil
}
