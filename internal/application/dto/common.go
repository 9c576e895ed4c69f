package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IDResponse clave generada por el store tras una alta.
type IDResponse struct {
	ID string `json:"id"`
}
