package dto

// ErrorResponse cuerpo de error HTTP. Fields detalla errores de validación por campo.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
