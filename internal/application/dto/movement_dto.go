package dto

import "time"

// CreateMovementRequest body para POST /api/movements.
// REQUEST/LOAN: material_id, origin_site_id, destination_site_id, quantity.
// RETURN: loan_movement_id, quantity. requested_by es opcional: por defecto la persona del token.
type CreateMovementRequest struct {
	Type              string `json:"type"`
	MaterialID        int64  `json:"material_id" validate:"min=0"`
	Quantity          int64  `json:"quantity"`
	RequestedBy       int64  `json:"requested_by" validate:"min=0"`
	OriginSiteID      int64  `json:"origin_site_id" validate:"min=0"`
	DestinationSiteID int64  `json:"destination_site_id" validate:"min=0"`
	LoanMovementID    int64  `json:"loan_movement_id" validate:"min=0"`
	DetailID          int64  `json:"detail_id" validate:"min=0"`
	Observations      string `json:"observations" validate:"max=500"`
}

// DecisionRequest body opcional para aprobar o rechazar; sin approver_id se usa la persona del token.
type DecisionRequest struct {
	ApproverID int64 `json:"approver_id" validate:"min=0"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                int64      `json:"id"`
	Type              string     `json:"type"`
	State             string     `json:"state"`
	Quantity          int64      `json:"quantity"`
	MaterialID        int64      `json:"material_id"`
	RequestedBy       int64      `json:"requested_by"`
	ApprovedBy        *int64     `json:"approved_by,omitempty"`
	OriginSiteID      int64      `json:"origin_site_id"`
	DestinationSiteID *int64     `json:"destination_site_id,omitempty"`
	LoanMovementID    *int64     `json:"loan_movement_id,omitempty"`
	LoanID            *int64     `json:"loan_id,omitempty"`
	DetailID          *int64     `json:"detail_id,omitempty"`
	Observations      string     `json:"observations,omitempty"`
	TransactionID     string     `json:"transaction_id"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// LoanResponse saldo de un préstamo.
type LoanResponse struct {
	ID                int64      `json:"id"`
	MovementID        int64      `json:"movement_id"`
	MaterialID        int64      `json:"material_id"`
	OriginSiteID      int64      `json:"origin_site_id"`
	DestinationSiteID int64      `json:"destination_site_id"`
	Quantity          int64      `json:"quantity"`
	Balance           int64      `json:"balance"`
	Active            bool       `json:"active"`
	ReturnedAt        *time.Time `json:"returned_at,omitempty"`
}

// ActiveLoanResponse préstamo LOANED con su saldo.
type ActiveLoanResponse struct {
	Movement MovementResponse `json:"movement"`
	Loan     LoanResponse     `json:"loan"`
}

// ActiveLoanListResponse lista de préstamos activos de un material.
type ActiveLoanListResponse struct {
	Items []ActiveLoanResponse `json:"items"`
	Total int                  `json:"total"`
}

// SettleReturnRequest body para POST /api/loans/:id/returns.
type SettleReturnRequest struct {
	Quantity int64 `json:"quantity"`
	PersonID int64 `json:"person_id" validate:"min=0"`
}

// SettlementResponse resultado de una devolución liquidada.
type SettlementResponse struct {
	Return       MovementResponse `json:"return"`
	LoanMovement MovementResponse `json:"loan_movement"`
	Loan         LoanResponse     `json:"loan"`
}

// MovementListResponse lista de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}
