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

	"github.com/spf13/cobra"

	"ppc-sim/internal/adapter/cache"
	httpadapter "ppc-sim/internal/adapter/http"
	"ppc-sim/internal/adapter/postgres"
	"ppc-sim/internal/adapter/usecase"
	"ppc-sim/internal/db"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve optionally runs database migrations, initializes the database pool
// and repositories, then starts the HTTP server. On receiving a termination
// signal it gracefully shuts down the server.
func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	if cfg.Psql.RunMigrations {
		if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		return err
	}
	defer pool.Close()

	repo := postgres.NewCampaignRepository(pool)
	svc := usecase.NewCampaignUseCase(repo, logger, usecase.SimulationParams{
		AvgSellingPrice: cfg.Sim.AvgSellingPrice,
		ConversionRate:  cfg.Sim.ConversionRate,
		Seed:            cfg.Sim.Seed,
	})

	var opts []httpadapter.Option
	if cfg.RateLimit.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis connection error", slog.Any("error", err))
			return err
		}
		defer client.Close()

		opts = append(opts, httpadapter.WithRateLimits(httpadapter.RateLimits{
			Limiter: cache.NewRateLimiter(client, cfg.RateLimit.Window),
			Read:    cfg.RateLimit.Requests,
			Write:   cfg.RateLimit.WriteRequests,
		}))
		logger.Info("rate limiting enabled",
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Int("write_requests", cfg.RateLimit.WriteRequests),
			slog.Duration("window", cfg.RateLimit.Window))
	}

	handler := httpadapter.NewHandler(svc, logger, opts...)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var exit error
	select {
	case value := <-quit:
		exit = &signalExit{sig: value.(syscall.Signal)}
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
	return exit
}
