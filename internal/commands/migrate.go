package commands

import (
	"errors"
	"fmt"

	"ewallet/config"
	pgStorage "ewallet/internal/adapter/storage/postgres"
	"ewallet/pkg/logger"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadMigrateConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := pgStorage.MigrateUp(cfg.Database.MigrateURL()); err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
			log.Info().Msg("Migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			cfg, err := loadMigrateConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := pgStorage.MigrateDown(cfg.Database.MigrateURL(), steps); err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
			log.Info().Int("steps", steps).Msg("Migrations rolled back")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func loadMigrateConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("migrations need the postgres storage driver, got %q", cfg.Storage.Driver)
	}
	return cfg, nil
}
