package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/warung-pos/internal/application/analytics"
)

// DashboardHandler maneja el resumen de ventas del dueño.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ingresos, cantidad de pedidos, ticket promedio y platos más vendidos.
// GET /api/dashboard?range=daily|weekly|monthly
//
// Un rango desconocido se trata como mensual. Las ventanas se cuentan hacia atrás desde ahora
// (24 h, 7 días, 30 días).
//
// @Summary      Resumen de ventas
// @Tags         dashboard
// @Produce      json
// @Param        range  query  string  false  "daily | weekly | monthly"
// @Success      200   {object}  dto.DashboardSummaryDTO
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetSummary(c.Query("range")))
}
