// Package billing genera el comprobante imprimible de los pedidos cobrados.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/domain"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// OrderLookup búsqueda de pedidos por clave (el ledger).
type OrderLookup interface {
	Get(id string) (entity.Order, bool)
}

// ReceiptUseCase arma el PDF del comprobante con el encabezado del negocio.
type ReceiptUseCase struct {
	orders    OrderLookup
	generator ports.ReceiptPDFGenerator
	header    ports.ReceiptHeader
	now       func() time.Time
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(orders OrderLookup, generator ports.ReceiptPDFGenerator, header ports.ReceiptHeader) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, generator: generator, header: header, now: time.Now}
}

// DownloadReceiptPDF devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound  si el pedido no existe en el ledger sincronizado.
//   - domain.ErrForbidden si un cajero pide un pedido que no es de hoy.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, viewer entity.Account, orderID string) ([]byte, string, error) {
	order, ok := uc.orders.Get(orderID)
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	if len(analytics.DailyScopedHistory([]entity.Order{order}, viewer.IsOwner(), uc.now())) == 0 {
		return nil, "", domain.ErrForbidden
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, uc.header, order)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("struk_%s.pdf", order.Number), nil
}
