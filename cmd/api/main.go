// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and running the
// chosen command. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/backend/internal/broker"
	"github.com/pkordes/trip-planner/backend/internal/config"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/middleware"
	"github.com/pkordes/trip-planner/backend/internal/preview"
	"github.com/pkordes/trip-planner/backend/internal/recommend"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
	"github.com/pkordes/trip-planner/backend/migrations"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "trip-planner",
		Short:         "Trip itinerary API backed by a remote recommender and a local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return config.LoadDotEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the cache and serve the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	var to int64

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			store, err := repo.Open(cmd.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if to <= 0 {
				return store.Migrate(cmd.Context(), logger)
			}

			p, err := migrations.NewProvider(store.DB, store.Dialect)
			if err != nil {
				return err
			}
			results, err := p.UpTo(cmd.Context(), to)
			for _, r := range results {
				logger.Info("migration applied", "version", r.Source.Version)
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&to, "to", 0, "stop at this version (default: latest)")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the applied state of every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			store, err := repo.Open(cmd.Context(), cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := migrations.NewProvider(store.DB, store.Dialect)
			if err != nil {
				return err
			}
			statuses, err := p.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "pending"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%3d  %-8s  %s\n", s.Source.Version, s.State, applied)
			}
			return nil
		},
	}
}

// setup loads configuration and installs the process logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("configuration error: %w", err)
	}

	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// --- Cache ------------------------------------------------------------
	store, err := repo.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// A cache the ledger cannot bring up to date is not served.
	if err := store.Migrate(ctx, logger); err != nil {
		return err
	}

	previews, err := preview.Open(cfg.PreviewTTL, logger)
	if err != nil {
		return err
	}
	defer previews.Close()

	// --- Services ---------------------------------------------------------
	remote := recommend.New(cfg.RecommenderURL,
		recommend.WithTimeout(cfg.RecommenderTimeout),
		recommend.WithRateLimit(cfg.RecommenderRPS, cfg.RecommenderBurst),
		recommend.WithLogger(logger),
	)
	hub := broker.NewHub(logger)
	trips := service.NewTripService(store.Trips, remote, previews, hub, logger).
		WithExploreLimits(cfg.ExploreTopK, cfg.ExploreMoreK)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(trips, trips, trips, trips, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Streams and recommender calls clear their own write deadline.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// Open streams never go idle; end them so Shutdown can drain.
	httpSrv.RegisterOnShutdown(srv.CloseStreams)

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server", "streams", hub.Subscribers())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
