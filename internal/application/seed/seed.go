// Package seed carga los datos de demostración cuando el store no tiene cuentas.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// AccountCreator alta de cuentas (el Directory, que hashea la contraseña).
type AccountCreator interface {
	Create(ctx context.Context, in dto.CreateAccountRequest) (entity.Account, error)
}

// Result conteo de lo sembrado; Skipped indica que el store ya tenía cuentas.
type Result struct {
	Skipped    bool
	Accounts   int
	Categories int
	Items      int
}

var categories = []string{"Makanan Utama", "Minuman", "Camilan"}

var menu = []entity.MenuItem{
	{Name: "Nasi Goreng Kapten", Price: decimal.NewFromInt(25000), Category: "Makanan Utama"},
	{Name: "Mie Goreng Spesial", Price: decimal.NewFromInt(22000), Category: "Makanan Utama"},
	{Name: "Ayam Bakar Madu", Price: decimal.NewFromInt(35000), Category: "Makanan Utama"},
	{Name: "Es Teh Manis", Price: decimal.NewFromInt(5000), Category: "Minuman"},
	{Name: "Jus Alpukat", Price: decimal.NewFromInt(15000), Category: "Minuman"},
	{Name: "Kentang Goreng", Price: decimal.NewFromInt(12000), Category: "Camilan"},
	{Name: "Pisang Keju", Price: decimal.NewFromInt(10000), Category: "Camilan"},
}

var accounts = []dto.CreateAccountRequest{
	{Username: entity.ProtectedUsername, Name: "Sang Kapten (Owner)", Role: string(entity.RoleOwner)},
	{Username: "kasir1", Name: "Budi Kasir", Role: string(entity.RoleCashier)},
}

// Run siembra cuentas, categorías y menú si users/ está vacío. Todas las cuentas usan defaultSecret.
func Run(ctx context.Context, store ports.StoreClient, creator AccountCreator, defaultSecret string, log *logger.Logger) (Result, error) {
	snap, err := store.ReadOnce(ctx, ports.PathUsers)
	if err != nil {
		return Result{}, fmt.Errorf("seed: leer cuentas: %w", err)
	}
	if snap.Exists {
		return Result{Skipped: true}, nil
	}

	var res Result
	for _, in := range accounts {
		in.Secret = defaultSecret
		if _, err := creator.Create(ctx, in); err != nil {
			return res, fmt.Errorf("seed: cuenta %s: %w", in.Username, err)
		}
		res.Accounts++
	}
	for _, name := range categories {
		if _, err := store.AppendUnder(ctx, ports.PathCategories, entity.Category{Name: name}); err != nil {
			return res, fmt.Errorf("seed: categoría %s: %w", name, err)
		}
		res.Categories++
	}
	for _, it := range menu {
		if _, err := store.AppendUnder(ctx, ports.PathMenu, it); err != nil {
			return res, fmt.Errorf("seed: plato %s: %w", it.Name, err)
		}
		res.Items++
	}
	log.Info().Int("accounts", res.Accounts).Int("categories", res.Categories).Int("items", res.Items).Msg("datos de demostración cargados")
	return res, nil
}
