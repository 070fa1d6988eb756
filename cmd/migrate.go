package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/bootstrap"
	"github.com/emickson/mobile-action-bar-backend/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the settings table and seed default rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.Database.Enabled() {
				return errors.New("DB_NAME is not set")
			}
			db, err := config.NewDatabase(&cfg.Database, logger)
			if err != nil {
				return err
			}
			if err := bootstrap.MigrateAndSeed(db); err != nil {
				return err
			}
			logger.Info("Schema migration and default seed completed", zap.String("database", cfg.Database.Name))
			return nil
		},
	}
}
