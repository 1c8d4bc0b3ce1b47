// Package movement contiene las reglas puras de la máquina de estados de movimientos.
package movement

import (
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Action acción que se aplica a un movimiento.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionSettle  Action = "settle" // liquidación total de un préstamo
)

type transition struct {
	kind   string
	from   string
	action Action
}

// table: (tipo, estado actual, acción) -> estado siguiente.
var table = map[transition]string{
	{entity.MovementTypeRequest, entity.MovementStatePending, ActionApprove}: entity.MovementStateApproved,
	{entity.MovementTypeRequest, entity.MovementStatePending, ActionReject}:  entity.MovementStateRejected,
	{entity.MovementTypeLoan, entity.MovementStatePending, ActionApprove}:    entity.MovementStateLoaned,
	{entity.MovementTypeLoan, entity.MovementStatePending, ActionReject}:     entity.MovementStateRejected,
	{entity.MovementTypeLoan, entity.MovementStateLoaned, ActionSettle}:      entity.MovementStateReturned,
	{entity.MovementTypeReturn, entity.MovementStatePending, ActionApprove}:  entity.MovementStateReturned,
	{entity.MovementTypeReturn, entity.MovementStatePending, ActionReject}:   entity.MovementStateRejected,
}

// Next devuelve el estado resultante de aplicar action a un movimiento de tipo kind en estado from.
// Aprobar o rechazar algo que no está PENDING devuelve ErrAlreadyFinalized;
// liquidar algo que no está LOANED devuelve ErrLoanNotFound.
func Next(kind, from string, action Action) (string, error) {
	if !ValidType(kind) {
		return "", domain.ErrInvalidInput
	}
	if to, ok := table[transition{kind, from, action}]; ok {
		return to, nil
	}
	switch action {
	case ActionApprove, ActionReject:
		return "", domain.ErrAlreadyFinalized
	case ActionSettle:
		return "", domain.ErrLoanNotFound
	}
	return "", domain.ErrInvalidInput
}

// ValidType indica si kind es un tipo de movimiento conocido.
func ValidType(kind string) bool {
	switch kind {
	case entity.MovementTypeRequest, entity.MovementTypeLoan, entity.MovementTypeReturn:
		return true
	}
	return false
}

// DrawsStock indica si aprobar un movimiento de este tipo descuenta stock de origen.
func DrawsStock(kind string) bool {
	return kind == entity.MovementTypeRequest || kind == entity.MovementTypeLoan
}
