package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine copia de un MenuItem en el momento de la venta más la cantidad.
// No se actualiza si después cambia el precio o el nombre en el catálogo.
type OrderLine struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"` // >= 1
}

// Subtotal precio × cantidad.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order venta cobrada (orders/{key}). Inmutable: el ledger solo agrega.
type Order struct {
	ID           string          `json:"-"`      // clave generada por el store
	Number       string          `json:"number"` // "WK-<epochMillis>", etiqueta visible, no única
	CustomerName string          `json:"customerName"`
	Items        []OrderLine     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	Change       decimal.Decimal `json:"change"`
	Timestamp    int64           `json:"timestamp"` // epoch millis
	CashierID    string          `json:"cashierId"`
	CashierName  string          `json:"cashierName"`
	TerminalID   string          `json:"terminalId,omitempty"`
}

// CreatedAt momento de la venta en la zona horaria local.
func (o Order) CreatedAt() time.Time {
	return time.UnixMilli(o.Timestamp)
}

// ItemCount suma de cantidades de todas las líneas.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}
