package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/seed"
	"github.com/jhoicas/warung-pos/pkg/config"
)

var errSeedMemory = errors.New("store en memoria: la terminal ya siembra al arrancar; use STORE_DRIVER=redis o postgres")

// posctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Cargar cuentas, categorías y menú de demostración si el store no tiene cuentas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, store, log, err := bootStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		if cfg.Store.Driver == config.StoreDriverMemory {
			return errSeedMemory
		}

		res, err := seed.Run(ctx, store.Client, directory.NewDirectory(store.Client, log), cfg.Seed.DefaultSecret, log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Skipped {
			fmt.Fprintln(out, "El store ya tiene cuentas; no se cargó nada.")
			return nil
		}
		fmt.Fprintf(out, "Cargado: %d cuentas, %d categorías, %d platos.\n", res.Accounts, res.Categories, res.Items)
		return nil
	},
}
