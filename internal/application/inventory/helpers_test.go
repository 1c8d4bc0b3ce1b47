package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	siteCentral int64 = 1
	siteNorte   int64 = 2

	personAna  int64 = 1
	personLuis int64 = 2

	matProyector int64 = 1 // sede de origen: Central
	matCable     int64 = 2 // sede de origen: Norte
	matInactivo  int64 = 3
	matCopia     int64 = 4
)

type harness struct {
	store    *memory.Store
	ledger   *inventory.StockLedgerUseCase
	builder  *inventory.CreateMovementUseCase
	approval *inventory.ApprovalUseCase
	loans    *inventory.LoanReturnUseCase
	resolver *inventory.AvailabilityResolver
}

// newHarness arma los casos de uso sobre un almacén en memoria con registros base.
// lots son lotes iniciales activos del proyector en Central, en orden FIFO.
func newHarness(t *testing.T, lots ...int64) *harness {
	t.Helper()
	store := memory.NewStore()
	f := &inventory.Fixtures{
		Sites:   []inventory.SiteFixture{{ID: siteCentral, Name: "Central"}, {ID: siteNorte, Name: "Norte"}},
		Persons: []inventory.PersonFixture{{ID: personAna, Name: "Ana"}, {ID: personLuis, Name: "Luis"}},
		Materials: []inventory.MaterialFixture{
			{ID: matProyector, Name: "Proyector", HomeSiteID: siteCentral, RequiresReturn: true},
			{ID: matCable, Name: "Cable HDMI", HomeSiteID: siteNorte},
			{ID: matInactivo, Name: "Retirado", HomeSiteID: siteCentral, Inactive: true},
			{ID: matCopia, Name: "Proyector (préstamo)", HomeSiteID: siteNorte, Copy: true},
		},
	}
	for _, q := range lots {
		f.Lots = append(f.Lots, inventory.LotFixture{MaterialID: matProyector, SiteID: siteCentral, Quantity: q})
	}
	require.NoError(t, inventory.LoadFixtures(context.Background(), store, f))

	log := logger.Nop()
	return &harness{
		store:    store,
		ledger:   inventory.NewStockLedgerUseCase(store, log),
		builder:  inventory.NewCreateMovementUseCase(store, log),
		approval: inventory.NewApprovalUseCase(store, log, inventory.DefaultMaxRetries),
		loans:    inventory.NewLoanReturnUseCase(store, log, inventory.DefaultMaxRetries),
		resolver: inventory.NewAvailabilityResolver(store),
	}
}

func (h *harness) available(t *testing.T, materialID, siteID int64) int64 {
	t.Helper()
	q, err := h.ledger.AvailableQuantity(context.Background(), materialID, siteID)
	require.NoError(t, err)
	return q
}

func (h *harness) outbound(t *testing.T, kind string, qty int64) *entity.Movement {
	t.Helper()
	mov, err := h.builder.CreateMovement(context.Background(), inventory.MovementInput{
		Type:              kind,
		MaterialID:        matProyector,
		Quantity:          qty,
		RequestedBy:       personLuis,
		OriginSiteID:      siteCentral,
		DestinationSiteID: siteNorte,
	})
	require.NoError(t, err)
	return mov
}

// approvedLoan crea y aprueba un préstamo del proyector Central -> Norte.
func (h *harness) approvedLoan(t *testing.T, qty int64) *entity.Movement {
	t.Helper()
	mov := h.outbound(t, entity.MovementTypeLoan, qty)
	loaned, err := h.approval.Approve(context.Background(), mov.ID, personAna)
	require.NoError(t, err)
	require.Equal(t, entity.MovementStateLoaned, loaned.State)
	return loaned
}

func (h *harness) movement(t *testing.T, id int64) *entity.Movement {
	t.Helper()
	mov, err := h.approval.GetMovement(context.Background(), id)
	require.NoError(t, err)
	return mov
}

func (h *harness) createDetail(t *testing.T) int64 {
	t.Helper()
	ctx := context.Background()
	d := &entity.Detail{RequestID: 1, MaterialID: matProyector, Quantity: 1, State: entity.MovementStatePending}
	require.NoError(t, h.store.Run(ctx, func(r inventory.Repositories) error {
		return r.Details.Create(ctx, d)
	}))
	return d.ID
}

func (h *harness) detailState(t *testing.T, id int64) string {
	t.Helper()
	ctx := context.Background()
	var state string
	require.NoError(t, h.store.Run(ctx, func(r inventory.Repositories) error {
		d, err := r.Details.GetByID(ctx, id)
		if err != nil {
			return err
		}
		require.NotNil(t, d)
		state = d.State
		return nil
	}))
	return state
}
