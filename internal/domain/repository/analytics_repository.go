package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueRepository agregados calculados en el servidor de datos, sin cargar el ledger en memoria.
// Las implementaciones son read-only.
type RevenueRepository interface {
	// RevenueSince devuelve Σ total y la cantidad de pedidos con timestamp > since.
	RevenueSince(ctx context.Context, since time.Time) (revenue decimal.Decimal, orders int, err error)
}
