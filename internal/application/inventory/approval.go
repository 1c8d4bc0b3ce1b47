package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/movement"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ApprovalUseCase es la máquina de estados de aprobación: el único componente que muta
// cantidades del libro de stock. Cada aprobación o rechazo es una transacción; el cambio de
// estado es un compare-and-set sobre PENDING, de modo que solo un llamador concurrente gana.
type ApprovalUseCase struct {
	tx    TxRunner
	retry retrier
	log   *logger.Logger
	now   func() time.Time
}

// NewApprovalUseCase construye el caso de uso. maxRetries acota los reintentos ante conflicto.
func NewApprovalUseCase(tx TxRunner, log *logger.Logger, maxRetries int) *ApprovalUseCase {
	return &ApprovalUseCase{tx: tx, retry: newRetrier(maxRetries, log), log: log, now: time.Now}
}

// Approve aprueba un movimiento PENDING.
//   - REQUEST: descuenta stock de origen y pasa a APPROVED (consumo, no crea stock en destino).
//   - LOAN: descuenta stock de origen, abre el saldo de préstamo y pasa a LOANED.
//   - RETURN: liquida la devolución contra su préstamo y pasa a RETURNED.
//
// Si el descuento falla no queda cambio de estado ni préstamo creado.
func (uc *ApprovalUseCase) Approve(ctx context.Context, movementID, approverID int64) (*entity.Movement, error) {
	if approverID == 0 {
		return nil, domain.MissingField("approver_id")
	}
	var result *entity.Movement
	err := uc.retry.do(ctx, domain.ErrAlreadyFinalized, func() error {
		return uc.tx.Run(ctx, func(r Repositories) error {
			mov, next, err := uc.load(ctx, r, movementID, approverID, movement.ActionApprove)
			if err != nil {
				return err
			}
			now := uc.now()

			if movement.DrawsStock(mov.Type) {
				if err := decrementStock(ctx, r, mov.ID, mov.MaterialID, mov.OriginSiteID, mov.Quantity, now); err != nil {
					return err
				}
			}
			switch mov.Type {
			case entity.MovementTypeLoan:
				loan, err := openLoan(ctx, r, mov, now)
				if err != nil {
					return err
				}
				mov.LoanID = &loan.ID
			case entity.MovementTypeReturn:
				if mov.LoanMovementID == nil {
					return domain.ErrLoanNotFound
				}
				loan, err := applySettlement(ctx, r, *mov.LoanMovementID, mov.Quantity, now)
				if err != nil {
					return err
				}
				mov.LoanID = &loan.ID
			}

			if err := uc.finalize(ctx, r, mov, next, approverID, now); err != nil {
				return err
			}
			result = mov
			return nil
		})
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("movement_id", movementID).Msg("aprobación rechazada")
		return nil, err
	}
	uc.log.Info().Int64("movement_id", result.ID).Str("type", result.Type).Str("state", result.State).
		Int64("approver_id", approverID).Str("tx_id", result.TransactionID).Msg("movimiento aprobado")
	return result, nil
}

// Reject rechaza un movimiento PENDING; no tiene efecto sobre el stock.
func (uc *ApprovalUseCase) Reject(ctx context.Context, movementID, approverID int64) (*entity.Movement, error) {
	if approverID == 0 {
		return nil, domain.MissingField("approver_id")
	}
	var result *entity.Movement
	err := uc.retry.do(ctx, domain.ErrAlreadyFinalized, func() error {
		return uc.tx.Run(ctx, func(r Repositories) error {
			mov, next, err := uc.load(ctx, r, movementID, approverID, movement.ActionReject)
			if err != nil {
				return err
			}
			if err := uc.finalize(ctx, r, mov, next, approverID, uc.now()); err != nil {
				return err
			}
			result = mov
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("movement_id", result.ID).Str("type", result.Type).Str("state", result.State).
		Int64("approver_id", approverID).Msg("movimiento rechazado")
	return result, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *ApprovalUseCase) GetMovement(ctx context.Context, id int64) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		mov, err = r.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	return mov, err
}

// load bloquea el movimiento, valida al aprobador y calcula el estado siguiente.
func (uc *ApprovalUseCase) load(ctx context.Context, r Repositories, movementID, approverID int64, action movement.Action) (*entity.Movement, string, error) {
	mov, err := r.Movements.GetForUpdate(ctx, movementID)
	if err != nil {
		return nil, "", err
	}
	if mov == nil {
		return nil, "", fmt.Errorf("movimiento %d: %w", movementID, domain.ErrNotFound)
	}
	next, err := movement.Next(mov.Type, mov.State, action)
	if err != nil {
		return nil, "", err
	}
	if err := requirePerson(ctx, r, approverID); err != nil {
		return nil, "", err
	}
	return mov, next, nil
}

// finalize aplica el compare-and-set PENDING -> next y refleja el estado en el detalle vinculado.
func (uc *ApprovalUseCase) finalize(ctx context.Context, r Repositories, mov *entity.Movement, next string, approverID int64, now time.Time) error {
	approver := approverID
	mov.State = next
	mov.ApprovedBy = &approver
	mov.ApprovedAt = &now
	mov.UpdatedAt = now
	if err := r.Movements.UpdateState(ctx, mov, entity.MovementStatePending); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return conflict(domain.ErrAlreadyFinalized)
		}
		return err
	}
	return mirrorDetail(ctx, r, mov, now)
}

// openLoan crea el saldo de préstamo para un LOAN aprobado.
func openLoan(ctx context.Context, r Repositories, mov *entity.Movement, now time.Time) (*entity.Loan, error) {
	if mov.DestinationSiteID == nil {
		return nil, domain.MissingField("destination_site_id")
	}
	loan := &entity.Loan{
		MovementID:        mov.ID,
		MaterialID:        mov.MaterialID,
		OriginSiteID:      mov.OriginSiteID,
		DestinationSiteID: *mov.DestinationSiteID,
		Quantity:          mov.Quantity,
		Balance:           mov.Quantity,
		RequiresReturn:    true,
		Active:            true,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

func mirrorDetail(ctx context.Context, r Repositories, mov *entity.Movement, now time.Time) error {
	if mov.DetailID == nil {
		return nil
	}
	return r.Details.UpdateState(ctx, *mov.DetailID, mov.State, now)
}
