package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store/pg"
)

func migrateCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema de la base (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			logger.Named("migrate").Info("schema aplicado")
			return nil
		},
	}
}
