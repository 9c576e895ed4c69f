package analytics

import (
	"time"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// HistoryUseCase historial de pedidos según el rol: el cajero solo ve los de hoy.
type HistoryUseCase struct {
	orders OrderSource
	now    func() time.Time
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(orders OrderSource, opts ...Option) *HistoryUseCase {
	o := buildOptions(opts)
	return &HistoryUseCase{orders: orders, now: o.now}
}

// List pedidos visibles para la cuenta, con cantidad e ingreso del conjunto.
func (uc *HistoryUseCase) List(viewer entity.Account) *dto.OrderHistoryResponse {
	visible := DailyScopedHistory(uc.orders.Orders(), viewer.IsOwner(), uc.now())
	out := make([]dto.OrderResponse, 0, len(visible))
	for _, o := range visible {
		out = append(out, ToOrderResponse(o))
	}
	return &dto.OrderHistoryResponse{
		Orders:  out,
		Count:   len(visible),
		Revenue: RevenueTotal(visible),
	}
}

// Get un pedido por clave con la misma regla de visibilidad que List.
func (uc *HistoryUseCase) Get(viewer entity.Account, id string) (dto.OrderResponse, error) {
	for _, o := range uc.orders.Orders() {
		if o.ID != id {
			continue
		}
		if len(DailyScopedHistory([]entity.Order{o}, viewer.IsOwner(), uc.now())) == 0 {
			return dto.OrderResponse{}, domain.ErrForbidden
		}
		return ToOrderResponse(o), nil
	}
	return dto.OrderResponse{}, domain.ErrNotFound
}

// ToOrderResponse convierte un pedido al formato de la API.
func ToOrderResponse(o entity.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Items))
	for _, l := range o.Items {
		lines = append(lines, dto.OrderLineResponse{ItemID: l.ItemID, Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return dto.OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		CustomerName: o.CustomerName,
		Items:        lines,
		Summary:      LineSummary(o),
		Total:        o.Total,
		AmountPaid:   o.AmountPaid,
		Change:       o.Change,
		Timestamp:    o.Timestamp,
		CreatedAt:    o.CreatedAt(),
		CashierID:    o.CashierID,
		CashierName:  o.CashierName,
		TerminalID:   o.TerminalID,
	}
}
