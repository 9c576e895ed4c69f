package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/catalog"
	"github.com/jhoicas/warung-pos/internal/application/checkout"
	"github.com/jhoicas/warung-pos/internal/application/dto"
)

// CheckoutHandler carrito de la terminal.
type CheckoutHandler struct {
	engine  *checkout.Engine
	catalog *catalog.Catalog
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(engine *checkout.Engine, c *catalog.Catalog) *CheckoutHandler {
	return &CheckoutHandler{engine: engine, catalog: c}
}

// Get godoc
// @Summary      Estado del carrito
// @Tags         checkout
// @Produce      json
// @Success      200   {object}  dto.CartResponse
// @Router       /api/checkout [get]
func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toCartResponse(h.engine.Snapshot()))
}

// AddItem godoc
// @Summary      Agregar una unidad de un plato
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "itemId"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/checkout/items [post]
func (h *CheckoutHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, ok := h.catalog.Item(in.ItemID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "plato no encontrado en el menú"})
	}
	h.engine.AddItem(item)
	return c.JSON(toCartResponse(h.engine.Snapshot()))
}

// AdjustQuantity godoc
// @Summary      Cambiar la cantidad de una línea (mínimo 1)
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "clave del plato"
// @Param        body  body  dto.AdjustQuantityRequest  true  "delta"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/checkout/items/{id} [patch]
func (h *CheckoutHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	h.engine.AdjustQuantity(c.Params("id"), in.Delta)
	return c.JSON(toCartResponse(h.engine.Snapshot()))
}

// SetCustomer godoc
// @Summary      Nombre del cliente o número de mesa
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerLabelRequest  true  "customerName"
// @Success      200   {object}  dto.CartResponse
// @Router       /api/checkout/customer [put]
func (h *CheckoutHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.CustomerLabelRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	h.engine.SetCustomerLabel(in.CustomerName)
	return c.JSON(toCartResponse(h.engine.Snapshot()))
}

// SetTendered godoc
// @Summary      Monto entregado por el cliente
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TenderedRequest  true  "amountPaid"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/checkout/tendered [put]
func (h *CheckoutHandler) SetTendered(c *fiber.Ctx) error {
	var in dto.TenderedRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.engine.SetTendered(in.AmountPaid); err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCartResponse(h.engine.Snapshot()))
}

// Settle godoc
// @Summary      Cobrar: registra el pedido y vacía el carrito
// @Tags         checkout
// @Produce      json
// @Success      201   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/checkout/settle [post]
func (h *CheckoutHandler) Settle(c *fiber.Ctx) error {
	order, err := h.engine.Settle(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if order == nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "CART_NOT_READY",
			Message: "faltan platos, nombre del cliente o el monto no cubre el total",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(analytics.ToOrderResponse(*order))
}

// Abandon godoc
// @Summary      Descartar el carrito
// @Tags         checkout
// @Success      204
// @Router       /api/checkout [delete]
func (h *CheckoutHandler) Abandon(c *fiber.Ctx) error {
	h.engine.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

func toCartResponse(cart checkout.Cart) dto.CartResponse {
	items := make([]dto.CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, dto.CartLineResponse{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
		})
	}
	return dto.CartResponse{
		State:        string(cart.State),
		Items:        items,
		CustomerName: cart.CustomerLabel,
		AmountPaid:   cart.Tendered,
		Subtotal:     cart.Subtotal,
		Change:       cart.Change,
		CanSettle:    cart.CanSettle,
	}
}
