package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestCreateLot_ActivoSalvoQueRequieraCodigo(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lot, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteCentral, Quantity: 4})
	require.NoError(t, err)
	assert.True(t, lot.Active)

	coded, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteCentral, Quantity: 6, RequiresCode: true})
	require.NoError(t, err)
	assert.False(t, coded.Active)
	assert.EqualValues(t, 4, h.available(t, matProyector, siteCentral), "los lotes inactivos no cuentan")
}

func TestCreateLot_Validacion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteCentral})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteCentral, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = h.ledger.CreateLot(ctx, inventory.CreateLotInput{SiteID: siteCentral, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	_, err = h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: 999, SiteID: siteCentral, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: 999, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLot_CicloDeVida(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lot, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteCentral, Quantity: 3, RequiresCode: true})
	require.NoError(t, err)

	_, err = h.ledger.Activate(ctx, lot.ID, nil)
	assert.ErrorIs(t, err, domain.ErrCodeRequired)
	empty := ""
	_, err = h.ledger.Activate(ctx, lot.ID, &empty)
	assert.ErrorIs(t, err, domain.ErrCodeRequired, "un código vacío no cuenta")

	code := "INV-0042"
	active, err := h.ledger.Activate(ctx, lot.ID, &code)
	require.NoError(t, err)
	assert.True(t, active.Active)
	require.NotNil(t, active.Code)
	assert.Equal(t, code, *active.Code)
	assert.EqualValues(t, 3, h.available(t, matProyector, siteCentral))

	_, err = h.ledger.Activate(ctx, lot.ID, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)

	_, err = h.ledger.Deactivate(ctx, lot.ID)
	require.NoError(t, err)
	assert.Zero(t, h.available(t, matProyector, siteCentral))
	_, err = h.ledger.Deactivate(ctx, lot.ID)
	assert.ErrorIs(t, err, domain.ErrNotActive)

	again, err := h.ledger.Activate(ctx, lot.ID, nil)
	require.NoError(t, err, "el código guardado basta para reactivar")
	assert.True(t, again.Active)

	_, err = h.ledger.Activate(ctx, 999, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = h.ledger.Deactivate(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLot_EliminarSoloSiNoEstaReferenciado(t *testing.T) {
	h := newHarness(t, 5)
	ctx := context.Background()

	spare, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matCable, SiteID: siteNorte, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, h.ledger.Delete(ctx, spare.ID))
	assert.ErrorIs(t, h.ledger.Delete(ctx, spare.ID), domain.ErrNotFound)

	mov := h.outbound(t, entity.MovementTypeRequest, 1)
	_, err = h.approval.Approve(ctx, mov.ID, personAna)
	require.NoError(t, err)

	lots, err := h.ledger.ListLots(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.ErrorIs(t, h.ledger.Delete(ctx, lots[0].ID), domain.ErrLotReferenced)
}

func TestListLots_FiltraPorMaterialYSede(t *testing.T) {
	h := newHarness(t, 5)
	ctx := context.Background()
	_, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matCable, SiteID: siteNorte, Quantity: 2})
	require.NoError(t, err)
	_, err = h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matCable, SiteID: siteCentral, Quantity: 1})
	require.NoError(t, err)

	mat, site := matCable, siteNorte
	lots, err := h.ledger.ListLots(ctx, &mat, nil)
	require.NoError(t, err)
	assert.Len(t, lots, 2)

	lots, err = h.ledger.ListLots(ctx, &mat, &site)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.EqualValues(t, 2, lots[0].Quantity)

	assert.Zero(t, h.available(t, matInactivo, siteCentral), "sin lotes el disponible es cero")
}
