package dto

import "github.com/shopspring/decimal"

// TopItemDTO plato más vendido en el periodo.
type TopItemDTO struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Percentage decimal.Decimal `json:"percentage"` // 0–100
}

// DashboardSummaryDTO resumen del periodo seleccionado.
type DashboardSummaryDTO struct {
	Range              string          `json:"range"`
	Revenue            decimal.Decimal `json:"revenue"`
	OrderCount         int             `json:"orderCount"`
	AverageTransaction decimal.Decimal `json:"averageTransaction"`
	TopItems           []TopItemDTO    `json:"topItems"`
}
