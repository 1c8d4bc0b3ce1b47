package entity

import "time"

// Loan registra el saldo pendiente de un préstamo aprobado ("copia de préstamo").
// Balance solo disminuye por liquidaciones; en cero el préstamo queda retirado.
type Loan struct {
	ID                int64
	MovementID        int64
	MaterialID        int64
	OriginSiteID      int64
	DestinationSiteID int64
	Quantity          int64
	Balance           int64
	RequiresReturn    bool
	Active            bool
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ReturnedAt        *time.Time
}

// IsOutstanding indica si quedan unidades por devolver.
func (l *Loan) IsOutstanding() bool { return l.Active && l.Balance > 0 }
