package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/movement"
)

// EligibleMaterial material elegible junto con su stock disponible en la sede consultada.
type EligibleMaterial struct {
	Material  *entity.Material
	Available int64
}

// AvailabilityResolver responde qué materiales se pueden elegir según tipo de movimiento y sede.
// Solo lectura.
type AvailabilityResolver struct {
	tx TxRunner
}

// NewAvailabilityResolver construye el resolvedor de disponibilidad.
func NewAvailabilityResolver(tx TxRunner) *AvailabilityResolver {
	return &AvailabilityResolver{tx: tx}
}

// ListEligibleMaterials devuelve los materiales elegibles, ordenados por ID.
//
// REQUEST y LOAN: material original y activo, y además (sin sede, o con stock en la sede,
// o la sede es su sede de origen; esto último lo deja visible para inspección aunque no haya stock).
// RETURN: todos los materiales originales activos; los préstamos pendientes se consultan aparte.
func (r *AvailabilityResolver) ListEligibleMaterials(ctx context.Context, kind string, siteID *int64) ([]EligibleMaterial, error) {
	if !movement.ValidType(kind) {
		return nil, domain.ErrInvalidInput
	}
	var out []EligibleMaterial
	err := r.tx.Run(ctx, func(repos Repositories) error {
		materials, err := repos.Materials.ListActiveOriginals(ctx)
		if err != nil {
			return err
		}
		available := map[int64]int64{}
		if siteID != nil {
			available, err = repos.Lots.AvailableBySite(ctx, *siteID)
			if err != nil {
				return err
			}
		}
		out = make([]EligibleMaterial, 0, len(materials))
		for _, m := range materials {
			if !m.Active || !m.IsOriginal {
				continue
			}
			qty := available[m.ID]
			if kind != entity.MovementTypeReturn && siteID != nil && qty <= 0 && m.HomeSiteID != *siteID {
				continue
			}
			out = append(out, EligibleMaterial{Material: m, Available: qty})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
