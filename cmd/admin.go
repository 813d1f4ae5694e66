package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"ppc-sim/internal/adapter/postgres"
	"ppc-sim/internal/adapter/usecase"
	"ppc-sim/internal/db"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := db.Migrate(a.cfg.Psql.Addr.String()); err != nil {
				a.logger.Error("migration error", slog.Any("error", err))
				return err
			}
			a.logger.Info("migrations applied successfully")
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo campaigns and simulated performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := db.NewPostgresPool(ctx, a.cfg.Psql)
			if err != nil {
				a.logger.Error("database connection error", slog.Any("error", err))
				return err
			}
			defer pool.Close()

			svc := usecase.NewCampaignUseCase(postgres.NewCampaignRepository(pool), a.logger, usecase.SimulationParams{
				AvgSellingPrice: a.cfg.Sim.AvgSellingPrice,
				ConversionRate:  a.cfg.Sim.ConversionRate,
				Seed:            a.cfg.Sim.Seed,
			})
			if err = db.Seed(ctx, svc, a.logger); err != nil {
				a.logger.Error("seed error", slog.Any("error", err))
				return err
			}
			return nil
		},
	}
}
