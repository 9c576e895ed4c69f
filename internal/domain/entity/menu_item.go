package entity

import "github.com/shopspring/decimal"

// MenuItem plato o bebida del catálogo (menu/{key}).
type MenuItem struct {
	ID       string          `json:"-"` // clave generada por el store
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`    // precio unitario, nunca negativo
	Category string          `json:"category"` // nombre de una Category existente
}
