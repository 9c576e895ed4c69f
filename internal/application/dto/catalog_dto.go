package dto

import "github.com/shopspring/decimal"

// MenuItemRequest entrada para crear o editar un plato.
type MenuItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Category string          `json:"category" validate:"required"`
}

// MenuItemResponse salida de un plato.
type MenuItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// CategoryRequest entrada para crear una categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
