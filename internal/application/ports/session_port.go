package ports

// SessionStore almacenamiento durable local del blob de sesión (una sola clave conocida).
type SessionStore interface {
	// Load devuelve nil, nil si no hay sesión guardada.
	Load() ([]byte, error)
	Save(blob []byte) error
	// Clear elimina la sesión; no falla si no existía.
	Clear() error
}
