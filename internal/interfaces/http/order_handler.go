package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/billing"
)

// OrderHandler historial y comprobantes.
type OrderHandler struct {
	history  *analytics.HistoryUseCase
	receipts *billing.ReceiptUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(history *analytics.HistoryUseCase, receipts *billing.ReceiptUseCase) *OrderHandler {
	return &OrderHandler{history: history, receipts: receipts}
}

// List godoc
// @Summary      Historial de pedidos (el cajero solo ve los de hoy)
// @Tags         orders
// @Produce      json
// @Success      200   {object}  dto.OrderHistoryResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	acc, _ := GetAccount(c)
	return c.JSON(h.history.List(acc))
}

// GetByID godoc
// @Summary      Detalle de un pedido
// @Tags         orders
// @Produce      json
// @Param        id    path  string  true  "clave del pedido"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	acc, _ := GetAccount(c)
	out, err := h.history.Get(acc, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante en PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id    path  string  true  "clave del pedido"
// @Success      200   {file}  binary
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	acc, _ := GetAccount(c)
	pdfBytes, filename, err := h.receipts.DownloadReceiptPDF(c.UserContext(), acc, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
