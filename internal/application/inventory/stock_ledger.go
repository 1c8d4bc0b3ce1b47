package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// StockLedgerUseCase es la fuente de verdad de las cantidades por sede (lotes de stock).
// Las mutaciones de cantidad (decrement/increment) solo se usan desde aprobaciones y
// liquidaciones, dentro de su transacción.
type StockLedgerUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso del libro de stock.
func NewStockLedgerUseCase(tx TxRunner, log *logger.Logger) *StockLedgerUseCase {
	return &StockLedgerUseCase{tx: tx, log: log, now: time.Now}
}

// CreateLotInput entrada para registrar un lote (ingreso manual de stock).
type CreateLotInput struct {
	MaterialID   int64
	SiteID       int64
	Quantity     int64
	RequiresCode bool
	Code         *string
}

// CreateLot registra un lote. Si no requiere código queda activo de inmediato.
func (uc *StockLedgerUseCase) CreateLot(ctx context.Context, in CreateLotInput) (*entity.StockLot, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.MaterialID == 0 {
		return nil, domain.MissingField("material_id")
	}
	if in.SiteID == 0 {
		return nil, domain.MissingField("site_id")
	}

	var lot *entity.StockLot
	err := uc.tx.Run(ctx, func(r Repositories) error {
		if err := requireMaterial(ctx, r, in.MaterialID); err != nil {
			return err
		}
		if err := requireSite(ctx, r, in.SiteID); err != nil {
			return err
		}
		now := uc.now()
		lot = &entity.StockLot{
			MaterialID:   in.MaterialID,
			SiteID:       in.SiteID,
			Quantity:     in.Quantity,
			Active:       !in.RequiresCode,
			RequiresCode: in.RequiresCode,
			Code:         normalizeCode(in.Code),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return r.Lots.Create(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("lot_id", lot.ID).Int64("material_id", lot.MaterialID).
		Int64("site_id", lot.SiteID).Int64("quantity", lot.Quantity).Bool("active", lot.Active).
		Msg("lote registrado")
	return lot, nil
}

// Activate activa un lote. Si el lote requiere código y no hay uno (ni guardado ni enviado)
// devuelve ErrCodeRequired; un código enviado reemplaza al guardado.
func (uc *StockLedgerUseCase) Activate(ctx context.Context, lotID int64, code *string) (*entity.StockLot, error) {
	var lot *entity.StockLot
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		lot, err = lockLot(ctx, r, lotID)
		if err != nil {
			return err
		}
		if lot.Active {
			return domain.ErrAlreadyActive
		}
		if c := normalizeCode(code); c != nil {
			lot.Code = c
		}
		if lot.RequiresCode && lot.Code == nil {
			return domain.ErrCodeRequired
		}
		lot.Active = true
		lot.UpdatedAt = uc.now()
		return r.Lots.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Deactivate desactiva un lote; su cantidad deja de contar como disponible.
func (uc *StockLedgerUseCase) Deactivate(ctx context.Context, lotID int64) (*entity.StockLot, error) {
	var lot *entity.StockLot
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		lot, err = lockLot(ctx, r, lotID)
		if err != nil {
			return err
		}
		if !lot.Active {
			return domain.ErrNotActive
		}
		lot.Active = false
		lot.UpdatedAt = uc.now()
		return r.Lots.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Delete elimina un lote que ningún movimiento haya tocado.
func (uc *StockLedgerUseCase) Delete(ctx context.Context, lotID int64) error {
	return uc.tx.Run(ctx, func(r Repositories) error {
		if _, err := lockLot(ctx, r, lotID); err != nil {
			return err
		}
		referenced, err := r.Allocations.ExistsForLot(ctx, lotID)
		if err != nil {
			return err
		}
		if referenced {
			return domain.ErrLotReferenced
		}
		return r.Lots.Delete(ctx, lotID)
	})
}

// AvailableQuantity suma la cantidad de los lotes activos de material+sede (0 si no hay).
func (uc *StockLedgerUseCase) AvailableQuantity(ctx context.Context, materialID, siteID int64) (int64, error) {
	var total int64
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		total, err = r.Lots.SumActive(ctx, materialID, siteID)
		return err
	})
	return total, err
}

// ListLots lista lotes filtrando opcionalmente por material y/o sede.
func (uc *StockLedgerUseCase) ListLots(ctx context.Context, materialID, siteID *int64) ([]*entity.StockLot, error) {
	var lots []*entity.StockLot
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		lots, err = r.Lots.List(ctx, materialID, siteID)
		return err
	})
	return lots, err
}

// decrementStock descuenta quantity de los lotes activos de material+sede en orden FIFO
// y registra de qué lotes salió cada unidad. Debe llamarse dentro de una transacción.
func decrementStock(ctx context.Context, r Repositories, movementID, materialID, siteID, quantity int64, now time.Time) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	lots, err := r.Lots.ListActiveForUpdate(ctx, materialID, siteID)
	if err != nil {
		return err
	}
	var available int64
	for _, l := range lots {
		available += l.Quantity
	}
	if available < quantity {
		return domain.ErrInsufficientStock
	}

	remaining := quantity
	for _, l := range lots {
		if remaining == 0 {
			break
		}
		take := min(l.Quantity, remaining)
		if take == 0 {
			continue
		}
		if err := r.Lots.Decrement(ctx, l.ID, take); err != nil {
			if errors.Is(err, domain.ErrConcurrentUpdate) {
				return conflict(domain.ErrInsufficientStock)
			}
			return err
		}
		alloc := &entity.LotAllocation{MovementID: movementID, LotID: l.ID, Quantity: take, CreatedAt: now}
		if err := r.Allocations.Create(ctx, alloc); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}

// incrementStock devuelve quantity unidades a la sede de origen de un préstamo.
// Restituye primero en los lotes de los que salió (del más reciente al más antiguo) si siguen
// activos; lo que no pueda volver a un lote activo se registra como un lote nuevo activo
// cuyo OriginLotID apunta al primer lote del que salió el préstamo.
func incrementStock(ctx context.Context, r Repositories, loanMovementID, materialID, siteID, quantity int64, now time.Time) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	allocs, err := r.Allocations.ListByMovement(ctx, loanMovementID)
	if err != nil {
		return err
	}

	remaining := quantity
	var unplaced int64
	for i := len(allocs) - 1; i >= 0 && remaining > 0; i-- {
		a := allocs[i]
		give := min(a.Outstanding(), remaining)
		if give <= 0 {
			continue
		}
		lot, err := r.Lots.GetForUpdate(ctx, a.LotID)
		if err != nil {
			return err
		}
		if lot != nil && lot.Active {
			if err := r.Lots.Increment(ctx, lot.ID, give); err != nil {
				if errors.Is(err, domain.ErrConcurrentUpdate) {
					return conflict(domain.ErrOverReturn)
				}
				return err
			}
		} else {
			unplaced += give
		}
		if err := r.Allocations.AddRestored(ctx, a.ID, give); err != nil {
			if errors.Is(err, domain.ErrConcurrentUpdate) {
				return conflict(domain.ErrOverReturn)
			}
			return err
		}
		remaining -= give
	}
	unplaced += remaining

	if unplaced == 0 {
		return nil
	}
	var originLot *int64
	if len(allocs) > 0 {
		id := allocs[0].LotID
		originLot = &id
	}
	lot := &entity.StockLot{
		MaterialID:  materialID,
		SiteID:      siteID,
		Quantity:    unplaced,
		Active:      true,
		OriginLotID: originLot,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Lots.Create(ctx, lot); err != nil {
		return fmt.Errorf("lote de devolución: %w", err)
	}
	return nil
}

func lockLot(ctx context.Context, r Repositories, id int64) (*entity.StockLot, error) {
	lot, err := r.Lots.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

func normalizeCode(code *string) *string {
	if code == nil || *code == "" {
		return nil
	}
	c := *code
	return &c
}
