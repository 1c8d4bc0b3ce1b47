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

var _ repository.LoanRepository = (*LoanRepo)(nil)

// LoanRepo implementación de LoanRepository sobre PostgreSQL (usable con pool o tx).
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador de préstamos.
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

const loanColumns = `id, movement_id, material_id, origin_site_id, destination_site_id, quantity, balance,
	requires_return, active, version, created_at, updated_at, returned_at`

func scanLoan(row rowScanner) (*entity.Loan, error) {
	var l entity.Loan
	err := row.Scan(&l.ID, &l.MovementID, &l.MaterialID, &l.OriginSiteID, &l.DestinationSiteID,
		&l.Quantity, &l.Balance, &l.RequiresReturn, &l.Active, &l.Version, &l.CreatedAt, &l.UpdatedAt, &l.ReturnedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepo) Create(ctx context.Context, l *entity.Loan) error {
	query := `
		INSERT INTO loans (movement_id, material_id, origin_site_id, destination_site_id, quantity, balance,
			requires_return, active, version, created_at, updated_at, returned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, l.MovementID, l.MaterialID, l.OriginSiteID, l.DestinationSiteID,
		l.Quantity, l.Balance, l.RequiresReturn, l.Active, l.Version, l.CreatedAt, l.UpdatedAt, l.ReturnedAt,
	).Scan(&l.ID)
	if err != nil {
		return insertError("loan", err)
	}
	return nil
}

func (r *LoanRepo) get(ctx context.Context, query string, arg int64) (*entity.Loan, error) {
	l, err := scanLoan(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

func (r *LoanRepo) GetByID(ctx context.Context, id int64) (*entity.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

func (r *LoanRepo) GetByMovementID(ctx context.Context, movementID int64) (*entity.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE movement_id = $1`, movementID)
}

// Settle descuenta el saldo con compare-and-set sobre version; en cero retira el préstamo.
func (r *LoanRepo) Settle(ctx context.Context, loan *entity.Loan, quantity int64) error {
	query := `
		UPDATE loans
		SET balance = balance - $3,
			version = version + 1,
			active = balance - $3 > 0,
			returned_at = CASE WHEN balance - $3 = 0 THEN now() ELSE returned_at END,
			updated_at = now()
		WHERE id = $1 AND version = $2 AND balance >= $3
		RETURNING ` + loanColumns
	updated, err := scanLoan(r.q.QueryRow(ctx, query, loan.ID, loan.Version, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrConcurrentUpdate
		}
		return fmt.Errorf("settle loan: %w", err)
	}
	*loan = *updated
	return nil
}
