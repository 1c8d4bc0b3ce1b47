package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/movement"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// LoanReturnUseCase concilia devoluciones contra préstamos activos.
// Se permiten varias devoluciones parciales; el préstamo pasa a RETURNED cuando el saldo llega a cero.
type LoanReturnUseCase struct {
	tx    TxRunner
	retry retrier
	log   *logger.Logger
	now   func() time.Time
}

// NewLoanReturnUseCase construye el caso de uso de préstamos y devoluciones.
func NewLoanReturnUseCase(tx TxRunner, log *logger.Logger, maxRetries int) *LoanReturnUseCase {
	return &LoanReturnUseCase{tx: tx, retry: newRetrier(maxRetries, log), log: log, now: time.Now}
}

// ActiveLoan un préstamo LOANED con su saldo pendiente.
type ActiveLoan struct {
	Movement *entity.Movement
	Loan     *entity.Loan
}

// Settlement resultado de una liquidación: el registro RETURN creado, el préstamo y su saldo.
type Settlement struct {
	Return       *entity.Movement
	LoanMovement *entity.Movement
	Loan         *entity.Loan
}

// ActiveLoans lista los préstamos del material con saldo pendiente, del más antiguo al más reciente.
func (uc *LoanReturnUseCase) ActiveLoans(ctx context.Context, materialID int64) ([]ActiveLoan, error) {
	var out []ActiveLoan
	err := uc.tx.Run(ctx, func(r Repositories) error {
		movs, err := r.Movements.ListActiveLoans(ctx, materialID)
		if err != nil {
			return err
		}
		out = make([]ActiveLoan, 0, len(movs))
		for _, m := range movs {
			loan, err := r.Loans.GetByMovementID(ctx, m.ID)
			if err != nil {
				return err
			}
			if loan == nil || !loan.IsOutstanding() {
				continue
			}
			out = append(out, ActiveLoan{Movement: m, Loan: loan})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SettleReturn aplica una devolución de quantity unidades contra el préstamo loanMovementID.
// Restituye el stock en la sede de origen, descuenta el saldo y deja un registro RETURN de auditoría.
func (uc *LoanReturnUseCase) SettleReturn(ctx context.Context, loanMovementID, quantity, personID int64) (*Settlement, error) {
	if loanMovementID == 0 {
		return nil, domain.MissingField("loan_movement_id")
	}
	if personID == 0 {
		return nil, domain.MissingField("person_id")
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var result *Settlement
	err := uc.retry.do(ctx, domain.ErrOverReturn, func() error {
		return uc.tx.Run(ctx, func(r Repositories) error {
			if err := requirePerson(ctx, r, personID); err != nil {
				return err
			}
			now := uc.now()
			loan, err := applySettlement(ctx, r, loanMovementID, quantity, now)
			if err != nil {
				return err
			}
			loanMov, err := r.Movements.GetByID(ctx, loanMovementID)
			if err != nil {
				return err
			}

			person, loanMovID, loanID := personID, loanMovementID, loan.ID
			ret := &entity.Movement{
				Type:           entity.MovementTypeReturn,
				Quantity:       quantity,
				MaterialID:     loan.MaterialID,
				RequestedBy:    personID,
				ApprovedBy:     &person,
				OriginSiteID:   loan.OriginSiteID,
				State:          entity.MovementStateReturned,
				LoanMovementID: &loanMovID,
				LoanID:         &loanID,
				TransactionID:  uuid.New().String(),
				ApprovedAt:     &now,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := r.Movements.Create(ctx, ret); err != nil {
				return err
			}
			result = &Settlement{Return: ret, LoanMovement: loanMov, Loan: loan}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("loan_movement_id", loanMovementID).Int64("quantity", quantity).
		Int64("balance", result.Loan.Balance).Str("loan_state", result.LoanMovement.State).
		Str("tx_id", result.Return.TransactionID).Msg("devolución liquidada")
	return result, nil
}

// ListReturns devuelve el historial de devoluciones de un préstamo, del más antiguo al más reciente.
func (uc *LoanReturnUseCase) ListReturns(ctx context.Context, loanMovementID int64) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := uc.tx.Run(ctx, func(r Repositories) error {
		loanMov, err := r.Movements.GetByID(ctx, loanMovementID)
		if err != nil {
			return err
		}
		if loanMov == nil || loanMov.Type != entity.MovementTypeLoan {
			return fmt.Errorf("préstamo %d: %w", loanMovementID, domain.ErrLoanNotFound)
		}
		out, err = r.Movements.ListByLoanMovement(ctx, loanMovementID)
		return err
	})
	return out, err
}

// applySettlement es el núcleo de la conciliación, común a SettleReturn y a la aprobación de un RETURN.
// Debe ejecutarse dentro de una transacción.
func applySettlement(ctx context.Context, r Repositories, loanMovementID, quantity int64, now time.Time) (*entity.Loan, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	loanMov, loan, err := findActiveLoan(ctx, r, loanMovementID, true)
	if err != nil {
		return nil, err
	}
	if quantity > loan.Balance {
		return nil, fmt.Errorf("saldo %d, devolución %d: %w", loan.Balance, quantity, domain.ErrOverReturn)
	}

	if err := incrementStock(ctx, r, loanMov.ID, loan.MaterialID, loan.OriginSiteID, quantity, now); err != nil {
		return nil, err
	}
	if err := r.Loans.Settle(ctx, loan, quantity); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, conflict(domain.ErrOverReturn)
		}
		return nil, err
	}
	if loan.Balance > 0 {
		return loan, nil
	}

	next, err := movement.Next(loanMov.Type, loanMov.State, movement.ActionSettle)
	if err != nil {
		return nil, err
	}
	loanMov.State = next
	loanMov.UpdatedAt = now
	if err := r.Movements.UpdateState(ctx, loanMov, entity.MovementStateLoaned); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, conflict(domain.ErrLoanNotFound)
		}
		return nil, err
	}
	if err := mirrorDetail(ctx, r, loanMov, now); err != nil {
		return nil, err
	}
	return loan, nil
}

// findActiveLoan obtiene el movimiento de préstamo LOANED y su saldo; cualquier otra cosa es ErrLoanNotFound.
func findActiveLoan(ctx context.Context, r Repositories, loanMovementID int64, lock bool) (*entity.Movement, *entity.Loan, error) {
	get := r.Movements.GetByID
	if lock {
		get = r.Movements.GetForUpdate
	}
	loanMov, err := get(ctx, loanMovementID)
	if err != nil {
		return nil, nil, err
	}
	if loanMov != nil && loanMov.Type == entity.MovementTypeLoan && loanMov.State == entity.MovementStateReturned {
		// préstamo ya saldado: cualquier cantidad supera el saldo cero
		return nil, nil, fmt.Errorf("préstamo %d saldado: %w", loanMovementID, domain.ErrOverReturn)
	}
	if loanMov == nil || loanMov.Type != entity.MovementTypeLoan || loanMov.State != entity.MovementStateLoaned {
		return nil, nil, fmt.Errorf("préstamo %d: %w", loanMovementID, domain.ErrLoanNotFound)
	}
	loan, err := r.Loans.GetByMovementID(ctx, loanMovementID)
	if err != nil {
		return nil, nil, err
	}
	if loan == nil || !loan.IsOutstanding() {
		return nil, nil, fmt.Errorf("préstamo %d sin saldo: %w", loanMovementID, domain.ErrLoanNotFound)
	}
	return loanMov, loan, nil
}
