// Command argent es el binario único del servicio: serve, migrate y seed.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/argent/internal/config"
	"github.com/dropDatabas3/argent/internal/observability/logger"
)

func main() {
	// .env primero, para que los ARGENT_* pisen el YAML.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:          "argent",
		Short:        "Argent: checklists compartidas con login de Google",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("ARGENT_CONFIG", "config.yaml"), "ruta del config YAML")

	root.AddCommand(serveCmd(&cfgPath))
	root.AddCommand(migrateCmd(&cfgPath))
	root.AddCommand(seedCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig carga config e inicializa el logger. Común a todos los comandos.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		// Sin YAML también se puede arrancar: todo por env.
		if os.IsNotExist(err) {
			cfg, err = config.Load("")
		}
		if err != nil {
			return nil, err
		}
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "argent",
	})
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
