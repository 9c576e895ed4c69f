package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/warung-pos/pkg/config"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// Requiere una base descartable: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func newDocumentStore(t *testing.T) (*postgres.DocumentStore, *postgres.AnalyticsRepo) {
	t.Helper()
	pool := newTestPool(t)
	return postgres.NewDocumentStore(pool, logger.Nop()), postgres.NewAnalyticsRepository(pool)
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `DELETE FROM documents`)
	require.NoError(t, err)
	return pool
}

func TestDocumentStore_MergeConservaHermanos(t *testing.T) {
	s, _ := newDocumentStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteAt(ctx, "users/kasir1", map[string]string{"name": "Budi", "role": "CASHIER"}))
	require.NoError(t, s.MergeAt(ctx, "users/kasir1", map[string]any{"role": "OWNER"}))

	snap, err := s.ReadOnce(ctx, "users/kasir1")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, snap.Decode(&got))
	assert.Equal(t, map[string]string{"name": "Budi", "role": "OWNER"}, got)
}

func TestDocumentStore_SubscribeYRevenue(t *testing.T) {
	s, repo := newDocumentStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var counts []int
	unsub, err := s.Subscribe(ctx, ports.PathOrders, func(snap ports.Snapshot) {
		children, _ := snap.Children()
		mu.Lock()
		counts = append(counts, len(children))
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsub()

	now := time.Now()
	for _, total := range []int64{55000, 5000} {
		_, err := s.AppendUnder(ctx, ports.PathOrders, entity.Order{
			Number:    "WK-1",
			Items:     []entity.OrderLine{{Name: "Es Teh", Price: decimal.NewFromInt(total), Quantity: 1}},
			Total:     decimal.NewFromInt(total),
			Timestamp: now.UnixMilli(),
		})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(counts) > 0 && counts[len(counts)-1] == 2
	}, 5*time.Second, 20*time.Millisecond)

	revenue, n, err := repo.RevenueSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, revenue.Equal(decimal.NewFromInt(60000)))

	revenue, n, err = repo.RevenueSince(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, revenue.IsZero())
}

func TestDocumentStore_SubscribeReconectaTrasCorte(t *testing.T) {
	pool := newTestPool(t)
	s := postgres.NewDocumentStore(pool, logger.Nop())
	ctx := context.Background()

	var mu sync.Mutex
	var names []string
	unsub, err := s.Subscribe(ctx, ports.PathMenu, func(snap ports.Snapshot) {
		children, _ := snap.Children()
		mu.Lock()
		defer mu.Unlock()
		names = names[:0]
		for _, ch := range children {
			var it entity.MenuItem
			if ch.Decode(&it) == nil {
				names = append(names, it.Name)
			}
		}
	})
	require.NoError(t, err)
	defer unsub()

	// Corta la conexión que está en LISTEN desde el lado del servidor.
	var killed int
	err = pool.QueryRow(ctx, `
		SELECT count(pg_terminate_backend(pid)) FROM pg_stat_activity
		WHERE datname = current_database() AND pid <> pg_backend_pid() AND query ILIKE 'LISTEN%'`).Scan(&killed)
	require.NoError(t, err)
	require.Equal(t, 1, killed)

	require.NoError(t, s.WriteAt(ctx, "menu/m1", entity.MenuItem{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Minuman"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 1 && names[0] == "Es Teh"
	}, 10*time.Second, 50*time.Millisecond, "la suscripción vuelve a entregar cambios")

	require.NoError(t, s.WriteAt(ctx, "menu/m2", entity.MenuItem{Name: "Jus Alpukat", Price: decimal.NewFromInt(15000), Category: "Minuman"}))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 2
	}, 5*time.Second, 20*time.Millisecond)
}
