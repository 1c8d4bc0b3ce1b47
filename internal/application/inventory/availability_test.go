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

func ids(list []inventory.EligibleMaterial) []int64 {
	out := make([]int64, 0, len(list))
	for _, e := range list {
		out = append(out, e.Material.ID)
	}
	return out
}

func TestEligible_SolicitudYPrestamoPorSede(t *testing.T) {
	h := newHarness(t, 5)
	ctx := context.Background()
	central, norte := siteCentral, siteNorte

	for _, kind := range []string{entity.MovementTypeRequest, entity.MovementTypeLoan} {
		got, err := h.resolver.ListEligibleMaterials(ctx, kind, &central)
		require.NoError(t, err)
		assert.Equal(t, []int64{matProyector}, ids(got), kind)
		assert.EqualValues(t, 5, got[0].Available)

		got, err = h.resolver.ListEligibleMaterials(ctx, kind, &norte)
		require.NoError(t, err)
		assert.Equal(t, []int64{matCable}, ids(got), "%s: sede de origen sin stock sigue visible", kind)
		assert.Zero(t, got[0].Available)

		got, err = h.resolver.ListEligibleMaterials(ctx, kind, nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{matProyector, matCable}, ids(got), "%s: sin sede, todos los originales activos", kind)
	}
}

func TestEligible_StockEnSedeAjena(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.ledger.CreateLot(ctx, inventory.CreateLotInput{MaterialID: matProyector, SiteID: siteNorte, Quantity: 2})
	require.NoError(t, err)

	norte := siteNorte
	got, err := h.resolver.ListEligibleMaterials(ctx, entity.MovementTypeRequest, &norte)
	require.NoError(t, err)
	assert.Equal(t, []int64{matProyector, matCable}, ids(got))
	assert.EqualValues(t, 2, got[0].Available)
}

func TestEligible_DevolucionListaTodosLosOriginales(t *testing.T) {
	h := newHarness(t, 5)
	norte := siteNorte
	got, err := h.resolver.ListEligibleMaterials(context.Background(), entity.MovementTypeReturn, &norte)
	require.NoError(t, err)
	assert.Equal(t, []int64{matProyector, matCable}, ids(got), "inactivos y copias nunca aparecen")
}

func TestEligible_TipoInvalido(t *testing.T) {
	h := newHarness(t)
	_, err := h.resolver.ListEligibleMaterials(context.Background(), "TRANSFER", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
