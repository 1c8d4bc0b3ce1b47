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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `m.id, m.type, m.quantity, m.material_id, m.requested_by, m.approved_by, m.origin_site_id,
	m.destination_site_id, m.state, m.loan_movement_id, m.loan_id, m.detail_id, m.observations,
	m.transaction_id, m.approved_at, m.created_at, m.updated_at`

func scanMovement(row rowScanner) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.Type, &m.Quantity, &m.MaterialID, &m.RequestedBy, &m.ApprovedBy,
		&m.OriginSiteID, &m.DestinationSiteID, &m.State, &m.LoanMovementID, &m.LoanID, &m.DetailID,
		&m.Observations, &m.TransactionID, &m.ApprovedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste el movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (type, quantity, material_id, requested_by, approved_by, origin_site_id,
			destination_site_id, state, loan_movement_id, loan_id, detail_id, observations,
			transaction_id, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Type, m.Quantity, m.MaterialID, m.RequestedBy, m.ApprovedBy, m.OriginSiteID,
		m.DestinationSiteID, m.State, m.LoanMovementID, m.LoanID, m.DetailID, m.Observations,
		m.TransactionID, m.ApprovedAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return insertError("movement", err)
	}
	return nil
}

func (r *MovementRepo) get(ctx context.Context, query string, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements m WHERE m.id = $1`, id)
}

// GetForUpdate obtiene el movimiento y bloquea la fila; una aprobación concurrente espera aquí.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements m WHERE m.id = $1 FOR UPDATE`, id)
}

// UpdateState compare-and-set sobre state.
func (r *MovementRepo) UpdateState(ctx context.Context, m *entity.Movement, expectedState string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE movements
		SET state = $2, approved_by = $3, approved_at = $4, loan_id = $5, updated_at = $6
		WHERE id = $1 AND state = $7`,
		m.ID, m.State, m.ApprovedBy, m.ApprovedAt, m.LoanID, m.UpdatedAt, expectedState)
	if err != nil {
		return fmt.Errorf("update movement state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (r *MovementRepo) list(ctx context.Context, query string, arg int64) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MovementRepo) ListActiveLoans(ctx context.Context, materialID int64) ([]*entity.Movement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM movements m JOIN loans l ON l.id = m.loan_id
		WHERE m.type = 'LOAN' AND m.state = 'LOANED' AND m.material_id = $1 AND l.active AND l.balance > 0
		ORDER BY m.created_at, m.id`, materialID)
}

func (r *MovementRepo) ListByLoanMovement(ctx context.Context, loanMovementID int64) ([]*entity.Movement, error) {
	return r.list(ctx, `
		SELECT `+movementColumns+`
		FROM movements m
		WHERE m.type = 'RETURN' AND m.loan_movement_id = $1
		ORDER BY m.created_at, m.id`, loanMovementID)
}
