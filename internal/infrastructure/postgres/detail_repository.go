package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DetailRepository = (*DetailRepo)(nil)

// DetailRepo implementación de DetailRepository sobre PostgreSQL.
type DetailRepo struct {
	q Querier
}

// NewDetailRepository construye el adaptador de detalles de solicitud.
func NewDetailRepository(q Querier) *DetailRepo {
	return &DetailRepo{q: q}
}

func (r *DetailRepo) Create(ctx context.Context, d *entity.Detail) error {
	query := `
		INSERT INTO details (request_id, material_id, quantity, state, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.q.QueryRow(ctx, query, d.RequestID, d.MaterialID, d.Quantity, d.State, d.UpdatedAt).Scan(&d.ID); err != nil {
		return insertError("detail", err)
	}
	return nil
}

func (r *DetailRepo) GetByID(ctx context.Context, id int64) (*entity.Detail, error) {
	var d entity.Detail
	err := r.q.QueryRow(ctx, `
		SELECT id, request_id, material_id, quantity, state, updated_at FROM details WHERE id = $1`, id,
	).Scan(&d.ID, &d.RequestID, &d.MaterialID, &d.Quantity, &d.State, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get detail: %w", err)
	}
	return &d, nil
}

func (r *DetailRepo) UpdateState(ctx context.Context, id int64, state string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE details SET state = $2, updated_at = $3 WHERE id = $1`, id, state, at)
	if err != nil {
		return fmt.Errorf("update detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
