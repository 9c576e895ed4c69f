package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// CatalogHandler menú y categorías.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ListMenu godoc
// @Summary      Listar platos
// @Tags         menu
// @Produce      json
// @Param        category  query  string  false  "nombre de categoría; vacío o All = todas"
// @Success      200   {array}  dto.MenuItemResponse
// @Router       /api/menu [get]
func (h *CatalogHandler) ListMenu(c *fiber.Ctx) error {
	items := h.catalog.ItemsByCategory(c.Query("category"))
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toMenuItemResponse(it))
	}
	return c.JSON(out)
}

// CreateItem godoc
// @Summary      Crear plato
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MenuItemRequest  true  "name, price, category"
// @Success      201   {object}  dto.IDResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/menu [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.MenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.catalog.AddItem(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// UpdateItem godoc
// @Summary      Editar plato
// @Tags         menu
// @Accept       json
// @Param        id    path  string  true  "clave del plato"
// @Param        body  body  dto.MenuItemRequest  true  "name, price, category"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu/{id} [put]
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.MenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.catalog.UpdateItem(c.UserContext(), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteItem godoc
// @Summary      Eliminar plato
// @Tags         menu
// @Param        id    path  string  true  "clave del plato"
// @Success      204
// @Router       /api/menu/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.catalog.RemoveItem(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200   {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	cats := h.catalog.Categories()
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, dto.CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "name"
// @Success      201   {object}  dto.IDResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.catalog.AddCategory(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: id})
}

// DeleteCategory godoc
// @Summary      Eliminar categoría (409 si algún plato la usa)
// @Tags         categories
// @Param        id    path  string  true  "clave de la categoría"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalog.RemoveCategory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toMenuItemResponse(it entity.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{ID: it.ID, Name: it.Name, Price: it.Price, Category: it.Category}
}
