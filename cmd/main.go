package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courtside/fastbreak/internal/adapters/http/api"
	"github.com/courtside/fastbreak/internal/adapters/pool"
	"github.com/courtside/fastbreak/internal/adapters/scheduler"
	"github.com/courtside/fastbreak/internal/adapters/storage/file"
	"github.com/courtside/fastbreak/internal/adapters/storage/memory"
	"github.com/courtside/fastbreak/internal/adapters/storage/sqlite"
	"github.com/courtside/fastbreak/internal/app"
	"github.com/courtside/fastbreak/internal/config"
	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/projection"
	"github.com/courtside/fastbreak/pkg/logger"
	"github.com/courtside/fastbreak/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	logger.Init()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	provider, err := pool.New(cfg.PoolFile)
	if err != nil {
		return fmt.Errorf("load player pool: %w", err)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithPoolProvider(provider),
		app.WithBudget(cfg.Budget),
		app.WithTeamSize(cfg.TeamSize),
		app.WithSampleSize(cfg.SampleSize),
		app.WithSeasonGames(cfg.SeasonGames),
		app.WithProjectionMode(projection.Mode(cfg.ProjectionMode)),
		app.WithProjectionSeed(cfg.ProjectionSeed),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	if cfg.Pregenerate {
		sched, err := scheduler.New(svc, cfg.PregenerateHour)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Error(ctx, "stop scheduler", logger.Error(err))
			}
		}()
	}

	mux := http.NewServeMux()
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(mux)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("%w: %v", api.ErrServe, err)
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}

// openStore builds the challenge store named by the configuration.
func openStore(cfg *config.Config) (challenge.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return file.New(cfg.DataDir)
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
	}
}
