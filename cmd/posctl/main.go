package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/warung-pos/internal/infrastructure/bootstrap"
	"github.com/jhoicas/warung-pos/pkg/config"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "posctl",
	Short:         "posctl: herramientas de administración de Warung POS",
	Long:          "posctl opera sobre el mismo store que las terminales: carga datos de demostración y muestra reportes de ventas.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
}

// bootStore carga la configuración y abre el store configurado.
func bootStore(ctx context.Context) (*config.Config, *bootstrap.Store, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, log, nil
}
