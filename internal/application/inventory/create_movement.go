package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/movement"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// CreateMovementUseCase valida la entrada y registra un movimiento PENDING.
// No toca stock: el descuento real ocurre al aprobar.
type CreateMovementUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewCreateMovementUseCase construye el caso de uso.
func NewCreateMovementUseCase(tx TxRunner, log *logger.Logger) *CreateMovementUseCase {
	return &CreateMovementUseCase{tx: tx, log: log, now: time.Now}
}

// MovementInput entrada para crear un movimiento. Un ID en cero se considera ausente.
// REQUEST/LOAN: OriginSiteID, DestinationSiteID, MaterialID, Quantity, RequestedBy.
// RETURN: LoanMovementID, Quantity, RequestedBy (material y sede salen del préstamo).
type MovementInput struct {
	Type              string
	MaterialID        int64
	Quantity          int64
	RequestedBy       int64
	OriginSiteID      int64
	DestinationSiteID int64
	LoanMovementID    int64
	DetailID          int64
	Observations      string
}

// CreateMovement valida campos por tipo, verifica registros y disponibilidad, y persiste el movimiento.
// La verificación de stock aquí es preliminar; se repite de forma atómica al aprobar.
func (uc *CreateMovementUseCase) CreateMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	if err := validateMovementInput(in); err != nil {
		return nil, err
	}

	now := uc.now()
	mov := &entity.Movement{
		Type:          in.Type,
		Quantity:      in.Quantity,
		RequestedBy:   in.RequestedBy,
		State:         entity.MovementStatePending,
		Observations:  strings.TrimSpace(in.Observations),
		TransactionID: uuid.New().String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.DetailID != 0 {
		id := in.DetailID
		mov.DetailID = &id
	}

	err := uc.tx.Run(ctx, func(r Repositories) error {
		if err := requirePerson(ctx, r, in.RequestedBy); err != nil {
			return err
		}
		if mov.DetailID != nil {
			d, err := r.Details.GetByID(ctx, *mov.DetailID)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("detalle %d: %w", *mov.DetailID, domain.ErrNotFound)
			}
		}
		if in.Type == entity.MovementTypeReturn {
			return uc.fillReturn(ctx, r, mov, in)
		}
		return uc.fillOutbound(ctx, r, mov, in)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("movement_id", mov.ID).Str("type", mov.Type).Int64("material_id", mov.MaterialID).
		Int64("quantity", mov.Quantity).Str("tx_id", mov.TransactionID).Msg("movimiento registrado")
	return mov, nil
}

// fillOutbound completa y persiste un REQUEST o LOAN.
func (uc *CreateMovementUseCase) fillOutbound(ctx context.Context, r Repositories, mov *entity.Movement, in MovementInput) error {
	if err := requireMaterial(ctx, r, in.MaterialID); err != nil {
		return err
	}
	if err := requireSite(ctx, r, in.OriginSiteID); err != nil {
		return err
	}
	if err := requireSite(ctx, r, in.DestinationSiteID); err != nil {
		return err
	}
	available, err := r.Lots.SumActive(ctx, in.MaterialID, in.OriginSiteID)
	if err != nil {
		return err
	}
	if available < in.Quantity {
		return fmt.Errorf("disponible %d, solicitado %d: %w", available, in.Quantity, domain.ErrInsufficientStock)
	}
	dest := in.DestinationSiteID
	mov.MaterialID = in.MaterialID
	mov.OriginSiteID = in.OriginSiteID
	mov.DestinationSiteID = &dest
	return r.Movements.Create(ctx, mov)
}

// fillReturn completa y persiste una intención de devolución contra un préstamo LOANED.
func (uc *CreateMovementUseCase) fillReturn(ctx context.Context, r Repositories, mov *entity.Movement, in MovementInput) error {
	loanMov, loan, err := findActiveLoan(ctx, r, in.LoanMovementID, false)
	if err != nil {
		return err
	}
	if in.Quantity > loan.Balance {
		return fmt.Errorf("saldo %d, devolución %d: %w", loan.Balance, in.Quantity, domain.ErrOverReturn)
	}
	loanMovID, loanID := loanMov.ID, loan.ID
	mov.MaterialID = loan.MaterialID
	mov.OriginSiteID = loan.OriginSiteID
	mov.LoanMovementID = &loanMovID
	mov.LoanID = &loanID
	return r.Movements.Create(ctx, mov)
}

func validateMovementInput(in MovementInput) error {
	if in.Type == "" {
		return domain.MissingField("type")
	}
	if !movement.ValidType(in.Type) {
		return fmt.Errorf("tipo %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.Type == entity.MovementTypeReturn {
		if in.LoanMovementID == 0 {
			return domain.MissingField("loan_movement_id")
		}
	} else {
		switch {
		case in.OriginSiteID == 0:
			return domain.MissingField("origin_site_id")
		case in.DestinationSiteID == 0:
			return domain.MissingField("destination_site_id")
		case in.MaterialID == 0:
			return domain.MissingField("material_id")
		}
	}
	if in.Quantity == 0 {
		return domain.MissingField("quantity")
	}
	if in.Quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if in.RequestedBy == 0 {
		return domain.MissingField("requested_by")
	}
	if in.Type != entity.MovementTypeReturn && in.OriginSiteID == in.DestinationSiteID {
		return fmt.Errorf("origen y destino iguales: %w", domain.ErrInvalidInput)
	}
	return nil
}
