package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.StockLotRepository      = (*StockLotRepo)(nil)
	_ repository.LotAllocationRepository = (*LotAllocationRepo)(nil)
)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, material_id, site_id, quantity, active, requires_code, code, transferred, origin_lot_id, created_at, updated_at`

func scanLot(row rowScanner) (*entity.StockLot, error) {
	var l entity.StockLot
	err := row.Scan(&l.ID, &l.MaterialID, &l.SiteID, &l.Quantity, &l.Active, &l.RequiresCode,
		&l.Code, &l.Transferred, &l.OriginLotID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *StockLotRepo) queryLots(ctx context.Context, query string, args ...any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create persiste un lote nuevo y asigna su ID.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (material_id, site_id, quantity, active, requires_code, code, transferred, origin_lot_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, l.MaterialID, l.SiteID, l.Quantity, l.Active, l.RequiresCode,
		l.Code, l.Transferred, l.OriginLotID, l.CreatedAt, l.UpdatedAt).Scan(&l.ID)
	if err != nil {
		return insertError("stock lot", err)
	}
	return nil
}

func (r *StockLotRepo) get(ctx context.Context, query string, id int64) (*entity.StockLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return l, nil
}

func (r *StockLotRepo) GetByID(ctx context.Context, id int64) (*entity.StockLot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM stock_lots WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM stock_lots WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado y código del lote. La cantidad solo cambia por Decrement/Increment.
func (r *StockLotRepo) Update(ctx context.Context, l *entity.StockLot) error {
	query := `
		UPDATE stock_lots SET active = $2, requires_code = $3, code = $4, transferred = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Active, l.RequiresCode, l.Code, l.Transferred, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockLotRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_lots WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLotReferenced
		}
		return fmt.Errorf("delete stock lot: %w", err)
	}
	return nil
}

// List filtra por material y/o sede (nil = sin filtro), ordenado por ID.
func (r *StockLotRepo) List(ctx context.Context, materialID, siteID *int64) ([]*entity.StockLot, error) {
	return r.queryLots(ctx, `
		SELECT `+lotColumns+` FROM stock_lots
		WHERE ($1::bigint IS NULL OR material_id = $1) AND ($2::bigint IS NULL OR site_id = $2)
		ORDER BY id`, materialID, siteID)
}

// ListActiveForUpdate lista y bloquea los lotes activos en orden FIFO (creación, luego ID).
func (r *StockLotRepo) ListActiveForUpdate(ctx context.Context, materialID, siteID int64) ([]*entity.StockLot, error) {
	return r.queryLots(ctx, `
		SELECT `+lotColumns+` FROM stock_lots
		WHERE material_id = $1 AND site_id = $2 AND active
		ORDER BY created_at, id
		FOR UPDATE`, materialID, siteID)
}

func (r *StockLotRepo) SumActive(ctx context.Context, materialID, siteID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock_lots WHERE material_id = $1 AND site_id = $2 AND active`
	if err := r.q.QueryRow(ctx, query, materialID, siteID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

func (r *StockLotRepo) AvailableBySite(ctx context.Context, siteID int64) (map[int64]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT material_id, SUM(quantity)::bigint FROM stock_lots
		WHERE site_id = $1 AND active
		GROUP BY material_id`, siteID)
	if err != nil {
		return nil, fmt.Errorf("available by site: %w", err)
	}
	defer rows.Close()
	out := map[int64]int64{}
	for rows.Next() {
		var materialID, qty int64
		if err := rows.Scan(&materialID, &qty); err != nil {
			return nil, fmt.Errorf("scan available: %w", err)
		}
		out[materialID] = qty
	}
	return out, rows.Err()
}

// Decrement resta quantity solo si el lote sigue activo y alcanza.
func (r *StockLotRepo) Decrement(ctx context.Context, lotID, quantity int64) error {
	return r.adjust(ctx, `
		UPDATE stock_lots SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND active AND quantity >= $2`, lotID, quantity)
}

// Increment suma quantity solo si el lote sigue activo.
func (r *StockLotRepo) Increment(ctx context.Context, lotID, quantity int64) error {
	return r.adjust(ctx, `
		UPDATE stock_lots SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND active`, lotID, quantity)
}

func (r *StockLotRepo) adjust(ctx context.Context, query string, lotID, quantity int64) error {
	tag, err := r.q.Exec(ctx, query, lotID, quantity)
	if err != nil {
		return fmt.Errorf("adjust stock lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

// LotAllocationRepo implementación de LotAllocationRepository sobre PostgreSQL.
type LotAllocationRepo struct {
	q Querier
}

// NewLotAllocationRepository construye el adaptador de asignaciones movimiento→lote.
func NewLotAllocationRepository(q Querier) *LotAllocationRepo {
	return &LotAllocationRepo{q: q}
}

func (r *LotAllocationRepo) Create(ctx context.Context, a *entity.LotAllocation) error {
	query := `
		INSERT INTO lot_allocations (movement_id, lot_id, quantity, restored, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, a.MovementID, a.LotID, a.Quantity, a.Restored, a.CreatedAt).Scan(&a.ID); err != nil {
		return insertError("lot allocation", err)
	}
	return nil
}

func (r *LotAllocationRepo) ListByMovement(ctx context.Context, movementID int64) ([]*entity.LotAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, movement_id, lot_id, quantity, restored, created_at
		FROM lot_allocations WHERE movement_id = $1 ORDER BY id`, movementID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var out []*entity.LotAllocation
	for rows.Next() {
		var a entity.LotAllocation
		if err := rows.Scan(&a.ID, &a.MovementID, &a.LotID, &a.Quantity, &a.Restored, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *LotAllocationRepo) AddRestored(ctx context.Context, id, quantity int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE lot_allocations SET restored = restored + $2
		WHERE id = $1 AND restored + $2 <= quantity`, id, quantity)
	if err != nil {
		return fmt.Errorf("restore allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *LotAllocationRepo) ExistsForLot(ctx context.Context, lotID int64) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lot_allocations WHERE lot_id = $1)`, lotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("lot referenced: %w", err)
	}
	return exists, nil
}
