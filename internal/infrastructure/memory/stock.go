package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var (
	_ repository.StockLotRepository      = lotRepo{}
	_ repository.LotAllocationRepository = allocationRepo{}
)

type lotRepo struct{ st *state }

func copyLot(l entity.StockLot) *entity.StockLot {
	l.Code = ptr(l.Code)
	l.OriginLotID = ptr(l.OriginLotID)
	return &l
}

func (r lotRepo) Create(_ context.Context, lot *entity.StockLot) error {
	lot.ID = r.st.nextID("stock_lots", lot.ID)
	r.st.lots[lot.ID] = *copyLot(*lot)
	return nil
}

func (r lotRepo) GetByID(_ context.Context, id int64) (*entity.StockLot, error) {
	l, ok := r.st.lots[id]
	if !ok {
		return nil, nil
	}
	return copyLot(l), nil
}

// GetForUpdate no necesita bloqueo: Store.Run ya serializa las transacciones.
func (r lotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.StockLot, error) {
	return r.GetByID(ctx, id)
}

func (r lotRepo) Update(_ context.Context, lot *entity.StockLot) error {
	if _, ok := r.st.lots[lot.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.lots[lot.ID] = *copyLot(*lot)
	return nil
}

func (r lotRepo) Delete(_ context.Context, id int64) error {
	delete(r.st.lots, id)
	return nil
}

func (r lotRepo) List(_ context.Context, materialID, siteID *int64) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, l := range r.st.lots {
		if materialID != nil && l.MaterialID != *materialID {
			continue
		}
		if siteID != nil && l.SiteID != *siteID {
			continue
		}
		out = append(out, copyLot(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r lotRepo) ListActiveForUpdate(_ context.Context, materialID, siteID int64) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, l := range r.st.lots {
		if l.Active && l.MaterialID == materialID && l.SiteID == siteID {
			out = append(out, copyLot(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r lotRepo) SumActive(_ context.Context, materialID, siteID int64) (int64, error) {
	var total int64
	for _, l := range r.st.lots {
		if l.Active && l.MaterialID == materialID && l.SiteID == siteID {
			total += l.Quantity
		}
	}
	return total, nil
}

func (r lotRepo) AvailableBySite(_ context.Context, siteID int64) (map[int64]int64, error) {
	out := map[int64]int64{}
	for _, l := range r.st.lots {
		if l.Active && l.SiteID == siteID {
			out[l.MaterialID] += l.Quantity
		}
	}
	return out, nil
}

func (r lotRepo) Decrement(_ context.Context, lotID, quantity int64) error {
	l, ok := r.st.lots[lotID]
	if !ok || !l.Active || l.Quantity < quantity {
		return domain.ErrConcurrentUpdate
	}
	l.Quantity -= quantity
	r.st.lots[lotID] = l
	return nil
}

func (r lotRepo) Increment(_ context.Context, lotID, quantity int64) error {
	l, ok := r.st.lots[lotID]
	if !ok || !l.Active {
		return domain.ErrConcurrentUpdate
	}
	l.Quantity += quantity
	r.st.lots[lotID] = l
	return nil
}

type allocationRepo struct{ st *state }

func (r allocationRepo) Create(_ context.Context, a *entity.LotAllocation) error {
	a.ID = r.st.nextID("lot_allocations", a.ID)
	r.st.allocations[a.ID] = *a
	return nil
}

func (r allocationRepo) ListByMovement(_ context.Context, movementID int64) ([]*entity.LotAllocation, error) {
	var out []*entity.LotAllocation
	for _, a := range r.st.allocations {
		if a.MovementID == movementID {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r allocationRepo) AddRestored(_ context.Context, id, quantity int64) error {
	a, ok := r.st.allocations[id]
	if !ok || a.Restored+quantity > a.Quantity {
		return domain.ErrConcurrentUpdate
	}
	a.Restored += quantity
	r.st.allocations[id] = a
	return nil
}

func (r allocationRepo) ExistsForLot(_ context.Context, lotID int64) (bool, error) {
	for _, a := range r.st.allocations {
		if a.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}
