package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LoanRepository define el puerto de persistencia para saldos de préstamo.
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	GetByID(ctx context.Context, id int64) (*entity.Loan, error)
	GetByMovementID(ctx context.Context, movementID int64) (*entity.Loan, error)
	// Settle descuenta quantity del saldo con compare-and-set sobre Version y Balance.
	// Actualiza loan en memoria al valor persistido; devuelve domain.ErrConcurrentUpdate si perdió la carrera.
	Settle(ctx context.Context, loan *entity.Loan, quantity int64) error
}
