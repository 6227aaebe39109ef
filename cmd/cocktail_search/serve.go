package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/api"
	"github.com/gcbaptista/go-cocktail-search/config"
	"github.com/gcbaptista/go-cocktail-search/internal/analytics"
	"github.com/gcbaptista/go-cocktail-search/internal/favorites"
	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
	"github.com/gcbaptista/go-cocktail-search/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API server.

Examples:
  cocktail_search serve
  cocktail_search serve --port 9000
  cocktail_search serve --config config.yaml --data-dir /tmp/cocktails`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadSettings()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if dataDir != "" {
				cfg.Server.DataDir = dataDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides config)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for stored snapshots (overrides config)")
	return cmd
}

// runServer serves the API until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, cfg *config.Settings) error {
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()
	logger := p.logger

	var sessions *session.Manager
	tracker := analytics.NewService(cfg.Server.DataDir,
		analytics.WithLogger(logger),
		analytics.WithSessionCounter(func() int { return sessions.Len() }),
	)
	sessions = session.NewManager(p.search, cfg.Pipeline.DebounceDuration(), cfg.Server.SessionIdleTTL,
		session.WithLogger(logger),
		session.WithMetrics(p.metrics),
		session.WithOnApply(tracker.TrackOutcome),
	)
	defer sessions.Close()
	go sessions.Run(ctx)

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.IsDebugging() {
		router.Use(gin.Logger())
	}
	api.SetupRoutes(router, api.Dependencies{
		Search:      p.search,
		Sessions:    sessions,
		Recommender: pantry.NewRecommender(p.client, logger),
		Cabinet:     pantry.NewCabinet(cfg.Server.DataDir, logger),
		Favorites:   favorites.NewStore(cfg.Server.DataDir, favorites.WithLogger(logger)),
		Analytics:   tracker,
		Metrics:     p.metrics,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.String("cocktaildb_url", cfg.Server.CocktailDBURL),
			zap.String("data_dir", cfg.Server.DataDir),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := tracker.Flush(); err != nil {
		logger.Warn("failed to flush analytics", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
