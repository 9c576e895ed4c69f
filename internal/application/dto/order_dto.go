package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineResponse línea de un pedido cobrado.
type OrderLineResponse struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// OrderResponse pedido del ledger.
type OrderResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	CustomerName string              `json:"customerName"`
	Items        []OrderLineResponse `json:"items"`
	Summary      string              `json:"summary"` // "Nombre (cant), ..."
	Total        decimal.Decimal     `json:"total"`
	AmountPaid   decimal.Decimal     `json:"amountPaid"`
	Change       decimal.Decimal     `json:"change"`
	Timestamp    int64               `json:"timestamp"`
	CreatedAt    time.Time           `json:"createdAt"`
	CashierID    string              `json:"cashierId"`
	CashierName  string              `json:"cashierName"`
	TerminalID   string              `json:"terminalId,omitempty"`
}

// OrderHistoryResponse historial visible para la sesión actual.
type OrderHistoryResponse struct {
	Orders  []OrderResponse `json:"orders"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}
