// Package catalog mantiene el menú y las categorías sincronizados con el store compartido.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

// AllCategories filtro que devuelve todo el menú.
const AllCategories = "All"

// Catalog proyección local de menu/ y categories/. Cada notificación reemplaza la colección completa.
type Catalog struct {
	store ports.StoreClient
	log   *logger.Logger

	mu         sync.RWMutex
	items      []entity.MenuItem
	categories []entity.Category
	unsubs     []ports.Unsubscribe
}

// NewCatalog construye el catálogo; no sincroniza hasta Start.
func NewCatalog(store ports.StoreClient, log *logger.Logger) *Catalog {
	return &Catalog{store: store, log: log.Component("catalog")}
}

// Start abre las suscripciones a menu/ y categories/.
func (c *Catalog) Start(ctx context.Context) error {
	unsubMenu, err := c.store.Subscribe(ctx, ports.PathMenu, c.onMenu)
	if err != nil {
		return fmt.Errorf("suscribir menú: %w", err)
	}
	unsubCats, err := c.store.Subscribe(ctx, ports.PathCategories, c.onCategories)
	if err != nil {
		unsubMenu()
		return fmt.Errorf("suscribir categorías: %w", err)
	}
	c.mu.Lock()
	c.unsubs = append(c.unsubs, unsubMenu, unsubCats)
	c.mu.Unlock()
	return nil
}

// Stop cierra las suscripciones.
func (c *Catalog) Stop() {
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}

func (c *Catalog) onMenu(snap ports.Snapshot) {
	children, err := snap.Children()
	if err != nil {
		c.log.Error().Err(err).Msg("snapshot de menú inválido")
		return
	}
	items := make([]entity.MenuItem, 0, len(children))
	for _, ch := range children {
		var it entity.MenuItem
		if err := ch.Decode(&it); err != nil {
			c.log.Warn().Err(err).Str("key", ch.Key).Msg("plato ignorado")
			continue
		}
		it.ID = ch.Key
		items = append(items, it)
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.log.Debug().Int("items", len(items)).Msg("menú sincronizado")
}

func (c *Catalog) onCategories(snap ports.Snapshot) {
	children, err := snap.Children()
	if err != nil {
		c.log.Error().Err(err).Msg("snapshot de categorías inválido")
		return
	}
	cats := make([]entity.Category, 0, len(children))
	for _, ch := range children {
		var cat entity.Category
		if err := ch.Decode(&cat); err != nil {
			c.log.Warn().Err(err).Str("key", ch.Key).Msg("categoría ignorada")
			continue
		}
		cat.ID = ch.Key
		cats = append(cats, cat)
	}
	c.mu.Lock()
	c.categories = cats
	c.mu.Unlock()
	c.log.Debug().Int("categories", len(cats)).Msg("categorías sincronizadas")
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// Items copia del menú en orden de clave.
func (c *Catalog) Items() []entity.MenuItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.MenuItem(nil), c.items...)
}

// ItemsByCategory filtra el menú por nombre de categoría; "" o "All" devuelve todo.
func (c *Catalog) ItemsByCategory(category string) []entity.MenuItem {
	if category == "" || category == AllCategories {
		return c.Items()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []entity.MenuItem
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Item busca un plato por clave.
func (c *Catalog) Item(id string) (entity.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return entity.MenuItem{}, false
}

// Categories copia de las categorías en orden de clave.
func (c *Catalog) Categories() []entity.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Category(nil), c.categories...)
}

// ── Escrituras ────────────────────────────────────────────────────────────────

// AddItem valida y agrega un plato con clave generada.
func (c *Catalog) AddItem(ctx context.Context, in dto.MenuItemRequest) (string, error) {
	item, err := c.validateItem(in)
	if err != nil {
		return "", err
	}
	id, err := c.store.AppendUnder(ctx, ports.PathMenu, item)
	if err != nil {
		return "", fmt.Errorf("agregar plato: %w", err)
	}
	c.log.Info().Str("id", id).Str("name", item.Name).Msg("plato agregado")
	return id, nil
}

// UpdateItem reemplaza nombre, precio y categoría de un plato existente.
func (c *Catalog) UpdateItem(ctx context.Context, id string, in dto.MenuItemRequest) error {
	if _, ok := c.Item(id); !ok {
		return domain.ErrNotFound
	}
	item, err := c.validateItem(in)
	if err != nil {
		return err
	}
	if err := c.store.WriteAt(ctx, ports.ChildPath(ports.PathMenu, id), item); err != nil {
		return fmt.Errorf("editar plato: %w", err)
	}
	return nil
}

// RemoveItem elimina un plato. Los pedidos históricos conservan su copia.
func (c *Catalog) RemoveItem(ctx context.Context, id string) error {
	if _, ok := c.Item(id); !ok {
		return domain.ErrNotFound
	}
	if err := c.store.RemoveAt(ctx, ports.ChildPath(ports.PathMenu, id)); err != nil {
		return fmt.Errorf("eliminar plato: %w", err)
	}
	return nil
}

// AddCategory agrega una categoría; el nombre debe ser único.
func (c *Catalog) AddCategory(ctx context.Context, in dto.CategoryRequest) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("%w: nombre de categoría requerido", domain.ErrValidation)
	}
	if c.hasCategory(name) {
		return "", fmt.Errorf("%w: categoría %q", domain.ErrDuplicate, name)
	}
	id, err := c.store.AppendUnder(ctx, ports.PathCategories, entity.Category{Name: name})
	if err != nil {
		return "", fmt.Errorf("agregar categoría: %w", err)
	}
	return id, nil
}

// RemoveCategory elimina una categoría que ningún plato referencia.
// Si sigue en uso devuelve domain.ErrIntegrityConflict sin escribir en el store.
func (c *Catalog) RemoveCategory(ctx context.Context, id string) error {
	c.mu.RLock()
	var cat *entity.Category
	for i := range c.categories {
		if c.categories[i].ID == id {
			cat = &c.categories[i]
			break
		}
	}
	if cat == nil {
		c.mu.RUnlock()
		return domain.ErrNotFound
	}
	name := cat.Name
	inUse := 0
	for _, it := range c.items {
		if it.Category == name {
			inUse++
		}
	}
	c.mu.RUnlock()

	if inUse > 0 {
		return fmt.Errorf("%w: %d platos usan la categoría %q", domain.ErrIntegrityConflict, inUse, name)
	}
	if err := c.store.RemoveAt(ctx, ports.ChildPath(ports.PathCategories, id)); err != nil {
		return fmt.Errorf("eliminar categoría: %w", err)
	}
	return nil
}

func (c *Catalog) validateItem(in dto.MenuItemRequest) (entity.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.MenuItem{}, fmt.Errorf("%w: nombre requerido", domain.ErrValidation)
	}
	if !in.Price.GreaterThan(decimal.Zero) {
		return entity.MenuItem{}, fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrValidation)
	}
	if !c.hasCategory(in.Category) {
		return entity.MenuItem{}, fmt.Errorf("%w: categoría %q inexistente", domain.ErrValidation, in.Category)
	}
	return entity.MenuItem{Name: name, Price: in.Price, Category: in.Category}, nil
}

func (c *Catalog) hasCategory(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}
