package entity

// Category categoría del menú (categories/{key}). Los platos la referencian por nombre.
type Category struct {
	ID   string `json:"-"` // clave generada por el store
	Name string `json:"name"`
}
