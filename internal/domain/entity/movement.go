package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeRequest = "REQUEST" // solicitud: consumo definitivo del stock de origen
	MovementTypeLoan    = "LOAN"    // préstamo: sale del origen y debe volver
	MovementTypeReturn  = "RETURN"  // devolución contra un préstamo
)

// Estados de movimiento.
const (
	MovementStatePending  = "PENDING"
	MovementStateApproved = "APPROVED"
	MovementStateRejected = "REJECTED"
	MovementStateLoaned   = "LOANED"
	MovementStateReturned = "RETURNED"
)

// Movement representa un evento de solicitud, préstamo o devolución de material.
// Para RETURN, LoanMovementID apunta al movimiento de préstamo que se liquida
// y OriginSiteID es la sede de origen del préstamo (a donde vuelve el stock).
type Movement struct {
	ID                int64
	Type              string
	Quantity          int64
	MaterialID        int64
	RequestedBy       int64
	ApprovedBy        *int64
	OriginSiteID      int64
	DestinationSiteID *int64
	State             string
	LoanMovementID    *int64
	LoanID            *int64
	DetailID          *int64
	Observations      string
	TransactionID     string
	ApprovedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPending indica si el movimiento todavía admite aprobación o rechazo.
func (m *Movement) IsPending() bool { return m.State == MovementStatePending }
