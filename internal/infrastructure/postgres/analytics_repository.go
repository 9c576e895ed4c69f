package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain/repository"
)

var _ repository.RevenueRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre los pedidos guardados en documents.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// RevenueSince suma el total y cuenta los pedidos con timestamp estrictamente posterior a since.
// El total se guarda como texto JSON; el cast a numeric se escanea con el codec de shopspring/decimal.
func (r *AnalyticsRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT
	    COALESCE(SUM((value->>'total')::numeric), 0) AS revenue,
	    COUNT(*)                                     AS order_count
	FROM documents
	WHERE collection = $1
	  AND (value->>'timestamp')::bigint > $2`

	var revenue decimal.Decimal
	var count int
	if err := r.pool.QueryRow(ctx, query, ports.PathOrders, since.UnixMilli()).Scan(&revenue, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics: ingresos: %w", storeError(err))
	}
	return revenue, count, nil
}
