// Package app provides application-level wiring for the ETL service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"ftplake/internal/api"
	"ftplake/internal/config"
	"ftplake/internal/domain"
	"ftplake/internal/middleware"
	"ftplake/internal/runlog"
	"ftplake/internal/service/archive"
	"ftplake/internal/service/fetch"
	"ftplake/internal/service/load"
	"ftplake/internal/service/pipeline"
	"ftplake/internal/subscriber"
)

// Deps holds the external dependencies that main() must provide: config,
// logger, and the cloud clients. Optional collaborators are nil when their
// feature is not configured.
type Deps struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	BigQuery *bigquery.Client
	Storage  *storage.Client // nil unless ARCHIVE_BUCKET is set
	PubSub   *pubsub.Client  // nil unless PUBSUB_SUBSCRIPTION is set
	RunDB    *sql.DB         // nil unless RUNLOG_PATH is set
}

// App is the fully wired service.
type App struct {
	Pipeline *pipeline.Pipeline
	Handler  *api.Handler

	deps Deps
	runs domain.RunRepository
}

// New wires the retriever, loader, and optional archiver/run log into the
// pipeline and API handler.
func New(deps Deps) *App {
	cfg := deps.Cfg

	retriever := fetch.NewFTPRetriever(0, deps.Logger.With("component", "fetch"))
	loader := load.NewBigQueryLoader(deps.BigQuery, deps.Logger.With("component", "load"))

	var archiver domain.Archiver
	if deps.Storage != nil && cfg.ArchiveBucket != "" {
		archiver = archive.NewGCSArchiver(deps.Storage, cfg.ArchiveBucket, deps.Logger.With("component", "archive"))
	}

	var runs domain.RunRepository
	if deps.RunDB != nil {
		runs = runlog.NewRepo(deps.RunDB)
	}

	p := pipeline.New(retriever, loader, archiver, runs, cfg.ScratchDir,
		deps.Logger.With("component", "pipeline"))
	h := api.NewHandler(p, runs, deps.Logger.With("component", "api"))

	return &App{Pipeline: p, Handler: h, deps: deps, runs: runs}
}

// Run serves the HTTP trigger surface and, when configured, the pull
// subscriber and the cron self-trigger, until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	cfg := a.deps.Cfg
	logger := a.deps.Logger

	opts := api.RouterOptions{
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	}
	if cfg.PushAudience != "" {
		verifier, err := middleware.NewPushVerifier(ctx, cfg.PushIssuerURL, cfg.PushAudience)
		if err != nil {
			return fmt.Errorf("push verifier: %w", err)
		}
		opts.PushAuth = verifier
		logger.Info("push auth enabled", "audience", cfg.PushAudience)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(a.Handler, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if a.deps.PubSub != nil && cfg.PubSubSubscription != "" {
		sub := subscriber.New(a.deps.PubSub, cfg.PubSubSubscription, a.Pipeline,
			logger.With("component", "subscriber"))
		g.Go(func() error { return sub.Receive(ctx) })
	}

	if cfg.SchedulePath != "" {
		sched, err := config.LoadSchedule(cfg.SchedulePath)
		if err != nil {
			return err
		}
		s := pipeline.NewScheduler(a.Pipeline, sched, logger.With("component", "scheduler"))
		if err := s.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			s.Stop()
			return nil
		})
	}

	return g.Wait()
}
