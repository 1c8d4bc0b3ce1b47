package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DetailRepository define el puerto para líneas de solicitudes de varias líneas.
type DetailRepository interface {
	Create(ctx context.Context, detail *entity.Detail) error
	GetByID(ctx context.Context, id int64) (*entity.Detail, error)
	UpdateState(ctx context.Context, id int64, state string, at time.Time) error
}
