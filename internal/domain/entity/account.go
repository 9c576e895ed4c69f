package entity

import "strings"

// Role rol de una cuenta del personal.
type Role string

// Roles válidos para Account.
const (
	RoleOwner   Role = "OWNER"
	RoleCashier Role = "CASHIER"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCashier
}

// ProtectedUsername cuenta principal que nunca puede eliminarse.
const ProtectedUsername = "admin"

// Account cuenta del personal, guardada en users/{username}.
// Username es la clave del store: siempre en minúsculas e inmutable (renombrar = crear otra cuenta).
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Secret   string `json:"password,omitempty"` // hash bcrypt; vacío fuera del Directory
}

// IsOwner indica si la cuenta tiene permisos de administración.
func (a Account) IsOwner() bool {
	return a.Role == RoleOwner
}

// WithoutSecret copia de la cuenta sin la contraseña.
func (a Account) WithoutSecret() Account {
	a.Secret = ""
	return a
}

// NormalizeUsername devuelve la forma usada como clave del store.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
