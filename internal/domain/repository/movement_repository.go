package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error)
	// UpdateState persiste estado, aprobador, préstamo y fechas solo si el estado
	// almacenado sigue siendo expectedState; si no, devuelve domain.ErrConcurrentUpdate.
	UpdateState(ctx context.Context, movement *entity.Movement, expectedState string) error
	// ListActiveLoans lista préstamos LOANED del material con saldo > 0, del más antiguo al más reciente.
	ListActiveLoans(ctx context.Context, materialID int64) ([]*entity.Movement, error)
	// ListByLoanMovement lista las devoluciones registradas contra un préstamo.
	ListByLoanMovement(ctx context.Context, loanMovementID int64) ([]*entity.Movement, error)
}
