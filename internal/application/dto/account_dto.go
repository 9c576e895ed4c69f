package dto

// CreateAccountRequest entrada para registrar una cuenta (la contraseña se hashea en el Directory).
type CreateAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=OWNER CASHIER"`
	Secret   string `json:"password" validate:"required"`
}

// UpdateAccountRequest edición parcial; Secret vacío conserva la contraseña actual.
type UpdateAccountRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role" validate:"omitempty,oneof=OWNER CASHIER"`
	Secret string  `json:"password"`
}

// AccountResponse salida de una cuenta (sin contraseña).
type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest credenciales de la terminal.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Secret   string `json:"password" validate:"required"`
}
