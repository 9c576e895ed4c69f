package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrBadCredential     = errors.New("credenciales inválidas")
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrIntegrityConflict = errors.New("el recurso sigue referenciado")
	ErrProtectedAccount  = errors.New("la cuenta está protegida")
	ErrConnectivity      = errors.New("store no disponible")
	ErrNoSession         = errors.New("no hay sesión activa")
	ErrForbidden         = errors.New("acceso denegado")
)
