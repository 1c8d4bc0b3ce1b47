package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockLotRepository define el puerto de persistencia para lotes de stock.
// Decrement e Increment son actualizaciones condicionales: si la fila ya no cumple
// la condición (lote inactivo o cantidad insuficiente) devuelven domain.ErrConcurrentUpdate.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, id int64) (*entity.StockLot, error)
	// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error)
	Update(ctx context.Context, lot *entity.StockLot) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, materialID, siteID *int64) ([]*entity.StockLot, error)
	// ListActiveForUpdate lista los lotes activos de material+sede en orden FIFO y los bloquea.
	ListActiveForUpdate(ctx context.Context, materialID, siteID int64) ([]*entity.StockLot, error)
	SumActive(ctx context.Context, materialID, siteID int64) (int64, error)
	// AvailableBySite devuelve materialID -> cantidad activa en la sede.
	AvailableBySite(ctx context.Context, siteID int64) (map[int64]int64, error)
	Decrement(ctx context.Context, lotID, quantity int64) error
	Increment(ctx context.Context, lotID, quantity int64) error
}

// LotAllocationRepository define el puerto para las asignaciones movimiento→lote.
type LotAllocationRepository interface {
	Create(ctx context.Context, allocation *entity.LotAllocation) error
	ListByMovement(ctx context.Context, movementID int64) ([]*entity.LotAllocation, error)
	// AddRestored suma quantity a Restored sin superar Quantity (condicional).
	AddRestored(ctx context.Context, id, quantity int64) error
	ExistsForLot(ctx context.Context, lotID int64) (bool, error)
}
