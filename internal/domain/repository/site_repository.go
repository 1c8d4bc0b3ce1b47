package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SiteRepository define el puerto de lectura del registro de sedes.
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id int64) (*entity.Site, error)
}
