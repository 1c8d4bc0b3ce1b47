package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Lookups contra los registros de materiales, sedes y personas: la ausencia es ErrNotFound.

func requireMaterial(ctx context.Context, r Repositories, id int64) error {
	_, err := getMaterial(ctx, r, id)
	return err
}

func getMaterial(ctx context.Context, r Repositories, id int64) (*entity.Material, error) {
	m, err := r.Materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("material %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

func requireSite(ctx context.Context, r Repositories, id int64) error {
	s, err := r.Sites.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("sede %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func requirePerson(ctx context.Context, r Repositories, id int64) error {
	p, err := r.Persons.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("persona %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
