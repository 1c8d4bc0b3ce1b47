package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrMissingRequiredField = errors.New("campo requerido ausente")
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrInsufficientStock    = errors.New("stock insuficiente")

	// Ciclo de vida de lotes de stock.
	ErrAlreadyActive = errors.New("el lote ya está activo")
	ErrNotActive     = errors.New("el lote no está activo")
	ErrCodeRequired  = errors.New("el lote requiere código para activarse")
	ErrLotReferenced = errors.New("el lote está referenciado por un movimiento")

	// Aprobaciones y préstamos.
	ErrAlreadyFinalized = errors.New("el movimiento ya fue finalizado")
	ErrLoanNotFound     = errors.New("préstamo activo no encontrado")
	ErrOverReturn       = errors.New("la devolución supera el saldo prestado")

	// ErrConcurrentUpdate indica que una actualización condicional (compare-and-set) no aplicó.
	// Uso interno: los casos de uso reintentan y nunca lo exponen al cliente.
	ErrConcurrentUpdate = errors.New("actualización concurrente")
)

// MissingField envuelve ErrMissingRequiredField con el nombre del campo.
func MissingField(name string) error {
	return &FieldError{Field: name, Err: ErrMissingRequiredField}
}

// FieldError asocia un error de validación a un campo de entrada.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }
