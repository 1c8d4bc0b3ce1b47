package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Materials   repository.MaterialRepository
	Sites       repository.SiteRepository
	Persons     repository.PersonRepository
	Lots        repository.StockLotRepository
	Allocations repository.LotAllocationRepository
	Movements   repository.MovementRepository
	Loans       repository.LoanRepository
	Details     repository.DetailRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; ningún efecto parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
