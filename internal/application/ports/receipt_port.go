package ports

import (
	"context"

	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// ReceiptHeader encabezado del comprobante (datos del negocio).
type ReceiptHeader struct {
	ShopName string
	Tagline  string
	Address  string
}

// ReceiptPDFGenerator genera el comprobante imprimible de un pedido.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, header ReceiptHeader, order entity.Order) ([]byte, error)
}
