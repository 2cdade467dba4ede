// Command innerflow-server starts the HTTP API backing the InnerFlow PWA.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/config"
	"github.com/annemirova/innerflow/internal/identity"
	"github.com/annemirova/innerflow/internal/insight"
	"github.com/annemirova/innerflow/internal/localstore"
	"github.com/annemirova/innerflow/internal/logging"
	"github.com/annemirova/innerflow/internal/migrate"
	"github.com/annemirova/innerflow/internal/repository/postgres"
	"github.com/annemirova/innerflow/internal/server/httpapi"
	"github.com/annemirova/innerflow/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, migrates the remote schema when one is
// configured, and serves the API. Remote failures at startup degrade to
// local-only operation instead of crashing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.IsProduction, cfg.LogFile)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.Bool("remote", cfg.RemoteConfigured()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local := localstore.New(cfg.DataDir, logger)
	ids := identity.New(cfg.DataDir, cfg.LockPollInterval, cfg.LockWaitTimeout, logger)

	opts := []service.Option{
		service.WithSyncTimeout(cfg.SyncTimeout),
		service.WithGenerator(insight.NewClient(cfg.AnthropicAPIKey, cfg.InsightModel, logger)),
	}

	var db *postgres.DB
	if cfg.RemoteConfigured() {
		if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
			// Remote misconfiguration is never fatal: run local-only.
			logger.Warn("migrate up failed, continuing local-only", zap.Error(err))
		} else if db, err = postgres.New(ctx, cfg.DatabaseURL); err != nil {
			logger.Warn("remote pool unavailable, continuing local-only", zap.Error(err))
			db = nil
		}
	}
	if db != nil {
		defer db.Close()
		opts = append(opts,
			service.WithRemote(postgres.NewEntryRepo(db)),
			service.WithInsightStore(postgres.NewInsightRepo(db)),
		)
	}

	svc := service.NewJournal(local, ids, logger, opts...)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(svc, logger, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
		svc.Wait()
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
