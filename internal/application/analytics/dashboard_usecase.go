package analytics

import (
	"time"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// OrderSource pedidos sincronizados, del más reciente al más antiguo (el ledger).
type OrderSource interface {
	Orders() []entity.Order
}

// Option configura los casos de uso de analítica.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow reemplaza el reloj (pruebas y reportes con fecha de corte).
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DashboardUseCase resumen de ventas del OWNER para la ventana seleccionada.
//
// Fuente de datos: la proyección local del ledger; se recalcula en cada consulta.
type DashboardUseCase struct {
	orders OrderSource
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(orders OrderSource, opts ...Option) *DashboardUseCase {
	o := buildOptions(opts)
	return &DashboardUseCase{orders: orders, now: o.now}
}

// GetSummary resumen para "daily", "weekly" o "monthly" (cualquier otro valor = monthly).
func (uc *DashboardUseCase) GetSummary(rangeParam string) *dto.DashboardSummaryDTO {
	return ToSummaryDTO(Summarize(uc.orders.Orders(), ParseRange(rangeParam), uc.now()))
}

// ToSummaryDTO convierte el resumen al formato de la API.
func ToSummaryDTO(s Summary) *dto.DashboardSummaryDTO {
	top := make([]dto.TopItemDTO, 0, len(s.TopItems))
	for _, it := range s.TopItems {
		top = append(top, dto.TopItemDTO{Name: it.Name, Quantity: it.Quantity, Percentage: it.Percentage})
	}
	return &dto.DashboardSummaryDTO{
		Range:              string(s.Range),
		Revenue:            s.Revenue,
		OrderCount:         s.OrderCount,
		AverageTransaction: s.AverageTransaction.Round(0),
		TopItems:           top,
	}
}
