package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PersonRepository define el puerto de lectura del registro de personas.
type PersonRepository interface {
	Create(ctx context.Context, person *entity.Person) error
	GetByID(ctx context.Context, id int64) (*entity.Person, error)
}
