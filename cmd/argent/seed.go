package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store"
	"github.com/dropDatabas3/argent/internal/store/pg"
)

// seedCmd crea el admin de desarrollo si no existe. Sin registro
// self-service, alguien tiene que existir antes del primer login.
func seedCmd(cfgPath *string) *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el usuario admin de desarrollo si no existe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			log := logger.Named("seed")

			if email == "" {
				email = cfg.Seed.AdminEmail
			}
			if name == "" {
				name = cfg.Seed.AdminName
			}
			if email == "" {
				return errors.New("seed: falta el email del admin (--email o seed.admin_email)")
			}
			if name == "" {
				name = "Admin"
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := pg.Connect(ctx, pg.Config{DSN: cfg.Storage.DSN})
			if err != nil {
				return err
			}
			defer db.Close()

			users := db.Users(nil, 0)
			if _, err := users.GetByEmail(ctx, email); err == nil {
				log.Info("admin ya existe", logger.Email(email))
				return nil
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			admin := domain.User{
				ID:    uuid.New(),
				Name:  name,
				Email: email,
				Role:  domain.RoleAdmin,
			}
			if err := users.Add(ctx, admin); err != nil {
				return err
			}
			log.Info("admin creado", logger.Email(email), logger.UserID(admin.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email del admin")
	cmd.Flags().StringVar(&name, "name", "", "nombre del admin")
	return cmd
}
