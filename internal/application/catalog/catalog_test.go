package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/internal/infrastructure/memory"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

func newCatalog(t *testing.T) (*catalog.Catalog, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	c := catalog.NewCatalog(store, logger.Nop())
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)
	return c, store
}

func seedCategories(t *testing.T, c *catalog.Catalog, names ...string) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for _, n := range names {
		id, err := c.AddCategory(context.Background(), dto.CategoryRequest{Name: n})
		require.NoError(t, err)
		ids[n] = id
	}
	return ids
}

func TestCatalog_AddItem_SincronizaProyeccion(t *testing.T) {
	c, _ := newCatalog(t)
	seedCategories(t, c, "Makanan Utama", "Minuman")

	id, err := c.AddItem(context.Background(), dto.MenuItemRequest{
		Name: "Nasi Goreng Kapten", Price: decimal.NewFromInt(25000), Category: "Makanan Utama",
	})
	require.NoError(t, err)

	item, ok := c.Item(id)
	require.True(t, ok)
	assert.Equal(t, "Nasi Goreng Kapten", item.Name)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(25000)))
	assert.Len(t, c.Categories(), 2)
}

func TestCatalog_AddItem_Validacion(t *testing.T) {
	c, store := newCatalog(t)
	seedCategories(t, c, "Minuman")

	cases := []dto.MenuItemRequest{
		{Name: "", Price: decimal.NewFromInt(5000), Category: "Minuman"},
		{Name: "Es Teh", Price: decimal.Zero, Category: "Minuman"},
		{Name: "Es Teh", Price: decimal.NewFromInt(-1), Category: "Minuman"},
		{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Camilan"},
	}
	for _, in := range cases {
		_, err := c.AddItem(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%+v", in)
	}

	snap, err := store.ReadOnce(context.Background(), ports.PathMenu)
	require.NoError(t, err)
	assert.False(t, snap.Exists, "ninguna escritura con entrada inválida")
}

func TestCatalog_ItemsByCategory(t *testing.T) {
	c, _ := newCatalog(t)
	seedCategories(t, c, "Makanan Utama", "Minuman")
	ctx := context.Background()
	_, err := c.AddItem(ctx, dto.MenuItemRequest{Name: "Nasi Goreng", Price: decimal.NewFromInt(25000), Category: "Makanan Utama"})
	require.NoError(t, err)
	_, err = c.AddItem(ctx, dto.MenuItemRequest{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Minuman"})
	require.NoError(t, err)

	assert.Len(t, c.ItemsByCategory(""), 2)
	assert.Len(t, c.ItemsByCategory(catalog.AllCategories), 2)
	minuman := c.ItemsByCategory("Minuman")
	require.Len(t, minuman, 1)
	assert.Equal(t, "Es Teh", minuman[0].Name)
	assert.Empty(t, c.ItemsByCategory("Camilan"))
}

func TestCatalog_RemoveCategory_ReferenciadaNoMutaElStore(t *testing.T) {
	c, store := newCatalog(t)
	ids := seedCategories(t, c, "Minuman")
	ctx := context.Background()
	_, err := c.AddItem(ctx, dto.MenuItemRequest{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Minuman"})
	require.NoError(t, err)

	var notifications int
	unsub, err := store.Subscribe(ctx, ports.PathCategories, func(ports.Snapshot) { notifications++ })
	require.NoError(t, err)
	defer unsub()
	before, err := store.ReadOnce(ctx, ports.PathCategories)
	require.NoError(t, err)

	err = c.RemoveCategory(ctx, ids["Minuman"])
	assert.True(t, errors.Is(err, domain.ErrIntegrityConflict))

	after, err := store.ReadOnce(ctx, ports.PathCategories)
	require.NoError(t, err)
	assert.JSONEq(t, string(before.Value), string(after.Value))
	assert.Equal(t, 1, notifications, "solo la entrega inicial")
	assert.Len(t, c.Categories(), 1)
}

func TestCatalog_RemoveCategory_SinReferencias(t *testing.T) {
	c, _ := newCatalog(t)
	ids := seedCategories(t, c, "Camilan", "Minuman")

	require.NoError(t, c.RemoveCategory(context.Background(), ids["Camilan"]))
	cats := c.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Minuman", cats[0].Name)

	err := c.RemoveCategory(context.Background(), ids["Camilan"])
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalog_AddCategory_DuplicadaOVacia(t *testing.T) {
	c, _ := newCatalog(t)
	seedCategories(t, c, "Minuman")

	_, err := c.AddCategory(context.Background(), dto.CategoryRequest{Name: "Minuman"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = c.AddCategory(context.Background(), dto.CategoryRequest{Name: "   "})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCatalog_UpdateYRemoveItem(t *testing.T) {
	c, _ := newCatalog(t)
	seedCategories(t, c, "Minuman")
	ctx := context.Background()
	id, err := c.AddItem(ctx, dto.MenuItemRequest{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Minuman"})
	require.NoError(t, err)

	require.NoError(t, c.UpdateItem(ctx, id, dto.MenuItemRequest{Name: "Es Teh Manis", Price: decimal.NewFromInt(6000), Category: "Minuman"}))
	item, ok := c.Item(id)
	require.True(t, ok)
	assert.Equal(t, entity.MenuItem{ID: id, Name: "Es Teh Manis", Price: item.Price, Category: "Minuman"}, item)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(6000)))

	require.NoError(t, c.RemoveItem(ctx, id))
	_, ok = c.Item(id)
	assert.False(t, ok)
	assert.True(t, errors.Is(c.RemoveItem(ctx, id), domain.ErrNotFound))
	assert.True(t, errors.Is(c.UpdateItem(ctx, id, dto.MenuItemRequest{}), domain.ErrNotFound))
}

func TestCatalog_FueraDeLinea(t *testing.T) {
	c, store := newCatalog(t)
	seedCategories(t, c, "Minuman")
	store.SetOffline(true)

	_, err := c.AddItem(context.Background(), dto.MenuItemRequest{Name: "Es Teh", Price: decimal.NewFromInt(5000), Category: "Minuman"})
	assert.True(t, errors.Is(err, domain.ErrConnectivity))
}
