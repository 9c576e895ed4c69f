package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/ledger"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/internal/infrastructure/memory"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

func order(number string, ts int64) entity.Order {
	return entity.Order{
		Number:       number,
		CustomerName: "Meja 1",
		Items:        []entity.OrderLine{{ItemID: "m1", Name: "Nasi Goreng", Price: decimal.NewFromInt(25000), Quantity: 1}},
		Total:        decimal.NewFromInt(25000),
		AmountPaid:   decimal.NewFromInt(25000),
		Change:       decimal.Zero,
		Timestamp:    ts,
	}
}

func newLedger(t *testing.T) (*ledger.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	l := ledger.NewLedger(store, logger.Nop())
	require.NoError(t, l.Start(context.Background()))
	t.Cleanup(l.Stop)
	return l, store
}

func TestLedger_Orders_MasRecientePrimero(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.Append(ctx, order("WK-2000", 2000))
	require.NoError(t, err)
	_, err = l.Append(ctx, order("WK-1000", 1000))
	require.NoError(t, err)
	_, err = l.Append(ctx, order("WK-3000", 3000))
	require.NoError(t, err)

	orders := l.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "WK-3000", orders[0].Number)
	assert.Equal(t, "WK-2000", orders[1].Number)
	assert.Equal(t, "WK-1000", orders[2].Number)
}

func TestLedger_MismoMilisegundo_ClavesDistintas(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	k1, err := l.Append(ctx, order("WK-5000", 5000))
	require.NoError(t, err)
	k2, err := l.Append(ctx, order("WK-5000", 5000))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	orders := l.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, k2, orders[0].ID, "empate de timestamp: la clave más nueva primero")
	assert.Equal(t, k1, orders[1].ID)
}

func TestLedger_Get(t *testing.T) {
	l, _ := newLedger(t)
	key, err := l.Append(context.Background(), order("WK-1", 1))
	require.NoError(t, err)

	o, ok := l.Get(key)
	require.True(t, ok)
	assert.Equal(t, "WK-1", o.Number)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(25000)))

	_, ok = l.Get("no-existe")
	assert.False(t, ok)
}

func TestLedger_Append_SinLineas(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Append(context.Background(), entity.Order{Number: "WK-1"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestLedger_Append_FueraDeLinea(t *testing.T) {
	l, store := newLedger(t)
	store.SetOffline(true)
	_, err := l.Append(context.Background(), order("WK-1", 1))
	assert.True(t, errors.Is(err, domain.ErrConnectivity))
	assert.Empty(t, l.Orders())
}

func TestLedger_PedidoIlegibleNoBloqueaLosDemas(t *testing.T) {
	l, store := newLedger(t)
	ctx := context.Background()
	require.NoError(t, store.WriteAt(ctx, "orders/legacy", map[string]any{"total": "abc"}))

	key, err := l.Append(ctx, order("WK-2", 2))
	require.NoError(t, err)

	got := l.Orders()
	require.Len(t, got, 1)
	assert.Equal(t, key, got[0].ID)
	_, ok := l.Get(key)
	assert.True(t, ok)

	snap, err := store.ReadOnce(ctx, "orders")
	require.NoError(t, err)
	orders, skipped, err := ledger.DecodeOrders(snap)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, []string{"legacy"}, skipped)
}
