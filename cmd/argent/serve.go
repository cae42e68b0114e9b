package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/argent/internal/auth"
	"github.com/dropDatabas3/argent/internal/cache"
	argenthttp "github.com/dropDatabas3/argent/internal/http"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store/pg"
)

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			defer logger.Sync()
			log := logger.Named("serve")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := pg.Connect(ctx, pg.Config{
				DSN:             cfg.Storage.DSN,
				MaxOpenConns:    cfg.Storage.MaxOpenConns,
				MaxIdleConns:    cfg.Storage.MaxIdleConns,
				ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			c := cache.New(cache.Config{
				Kind:       cfg.Cache.Kind,
				DefaultTTL: cfg.CacheTTL(),
				RedisAddr:  cfg.Cache.Redis.Addr,
				RedisDB:    cfg.Cache.Redis.DB,
				Prefix:     cfg.Cache.Redis.Prefix,
			})

			keys := auth.NewKeyCache(cfg.Google.JWKSURL)
			verifier := auth.NewVerifier(keys, cfg.Google.ClientID)

			handler := argenthttp.NewRouter(argenthttp.Deps{
				Cfg:        cfg,
				Verifier:   verifier,
				Users:      db.Users(c, cfg.CacheTTL()),
				Checklists: db.Checklists(),
				MarbleGame: db.MarbleGame(),
				DB:         db,
			})

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      handler,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("servidor escuchando", logger.Path(cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("apagando servidor")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}
