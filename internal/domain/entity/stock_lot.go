package entity

import "time"

// StockLot representa una cantidad de un material en una sede (lote).
// Solo los lotes activos cuentan para el stock disponible.
type StockLot struct {
	ID           int64
	MaterialID   int64
	SiteID       int64
	Quantity     int64
	Active       bool
	RequiresCode bool
	Code         *string
	Transferred  bool
	OriginLotID  *int64 // procedencia cuando el lote nace de un traslado o devolución
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LotAllocation registra cuántas unidades tomó un movimiento aprobado de un lote.
// Restored acumula lo devuelto al lote por liquidaciones de préstamo.
type LotAllocation struct {
	ID         int64
	MovementID int64
	LotID      int64
	Quantity   int64
	Restored   int64
	CreatedAt  time.Time
}

// Outstanding devuelve las unidades aún no restituidas al lote.
func (a *LotAllocation) Outstanding() int64 {
	return a.Quantity - a.Restored
}
