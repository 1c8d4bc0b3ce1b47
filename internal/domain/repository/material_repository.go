package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para el catálogo de materiales (DIP).
// GetByID devuelve (nil, nil) si el material no existe.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// ListActiveOriginals lista los materiales activos con IsOriginal=true, ordenados por ID.
	ListActiveOriginals(ctx context.Context) ([]*entity.Material, error)
}
