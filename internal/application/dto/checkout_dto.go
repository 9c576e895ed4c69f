package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest agrega una unidad del plato indicado al carrito.
type AddCartItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

// AdjustQuantityRequest suma delta (positivo o negativo) a la cantidad de una línea.
type AdjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// CustomerLabelRequest nombre del cliente o número de mesa.
type CustomerLabelRequest struct {
	CustomerName string `json:"customerName"`
}

// TenderedRequest monto entregado por el cliente.
type TenderedRequest struct {
	AmountPaid decimal.Decimal `json:"amountPaid"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartResponse estado completo del checkout de la terminal.
type CartResponse struct {
	State        string             `json:"state"`
	Items        []CartLineResponse `json:"items"`
	CustomerName string             `json:"customerName"`
	AmountPaid   decimal.Decimal    `json:"amountPaid"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Change       decimal.Decimal    `json:"change"`
	CanSettle    bool               `json:"canSettle"`
}
