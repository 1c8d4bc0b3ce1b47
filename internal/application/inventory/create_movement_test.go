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

func inputRequest(qty int64) inventory.MovementInput {
	return inventory.MovementInput{
		Type:              entity.MovementTypeRequest,
		MaterialID:        matProyector,
		Quantity:          qty,
		RequestedBy:       personLuis,
		OriginSiteID:      siteCentral,
		DestinationSiteID: siteNorte,
	}
}

func TestCreateMovement_Validacion(t *testing.T) {
	h := newHarness(t, 5)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(in *inventory.MovementInput)
		want   error
		field  string
	}{
		{"sin tipo", func(in *inventory.MovementInput) { in.Type = "" }, domain.ErrMissingRequiredField, "type"},
		{"tipo desconocido", func(in *inventory.MovementInput) { in.Type = "TRANSFER" }, domain.ErrInvalidInput, ""},
		{"sin sede de origen", func(in *inventory.MovementInput) { in.OriginSiteID = 0 }, domain.ErrMissingRequiredField, "origin_site_id"},
		{"sin sede de destino", func(in *inventory.MovementInput) { in.DestinationSiteID = 0 }, domain.ErrMissingRequiredField, "destination_site_id"},
		{"sin material", func(in *inventory.MovementInput) { in.MaterialID = 0 }, domain.ErrMissingRequiredField, "material_id"},
		{"cantidad cero", func(in *inventory.MovementInput) { in.Quantity = 0 }, domain.ErrMissingRequiredField, "quantity"},
		{"cantidad negativa", func(in *inventory.MovementInput) { in.Quantity = -2 }, domain.ErrInvalidQuantity, ""},
		{"sin solicitante", func(in *inventory.MovementInput) { in.RequestedBy = 0 }, domain.ErrMissingRequiredField, "requested_by"},
		{"origen igual a destino", func(in *inventory.MovementInput) { in.DestinationSiteID = siteCentral }, domain.ErrInvalidInput, ""},
		{"préstamo a la misma sede", func(in *inventory.MovementInput) {
			in.Type = entity.MovementTypeLoan
			in.DestinationSiteID = siteCentral
		}, domain.ErrInvalidInput, ""},
		{"solicitante inexistente", func(in *inventory.MovementInput) { in.RequestedBy = 999 }, domain.ErrNotFound, ""},
		{"material inexistente", func(in *inventory.MovementInput) { in.MaterialID = 999 }, domain.ErrNotFound, ""},
		{"sede inexistente", func(in *inventory.MovementInput) { in.DestinationSiteID = 999 }, domain.ErrNotFound, ""},
		{"detalle inexistente", func(in *inventory.MovementInput) { in.DetailID = 999 }, domain.ErrNotFound, ""},
		{"supera el disponible", func(in *inventory.MovementInput) { in.Quantity = 6 }, domain.ErrInsufficientStock, ""},
		{"devolución sin préstamo", func(in *inventory.MovementInput) { in.Type = entity.MovementTypeReturn }, domain.ErrMissingRequiredField, "loan_movement_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := inputRequest(2)
			tc.mutate(&in)
			_, err := h.builder.CreateMovement(ctx, in)
			require.ErrorIs(t, err, tc.want)
			if tc.field != "" {
				var fe *domain.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tc.field, fe.Field)
			}
		})
	}
}

func TestCreateMovement_RegistraPendienteSinTocarStock(t *testing.T) {
	h := newHarness(t, 5)
	in := inputRequest(5)
	in.Type = "loan"
	in.Observations = "  para el auditorio  "

	mov, err := h.builder.CreateMovement(context.Background(), in)
	require.NoError(t, err)
	assert.NotZero(t, mov.ID)
	assert.Equal(t, entity.MovementTypeLoan, mov.Type, "el tipo se normaliza a mayúsculas")
	assert.Equal(t, entity.MovementStatePending, mov.State)
	assert.Equal(t, "para el auditorio", mov.Observations)
	assert.NotEmpty(t, mov.TransactionID)
	require.NotNil(t, mov.DestinationSiteID)
	assert.Equal(t, siteNorte, *mov.DestinationSiteID)
	assert.Nil(t, mov.ApprovedBy)
	assert.EqualValues(t, 5, h.available(t, matProyector, siteCentral))
}

func TestCreateMovement_DevolucionValidaContraSaldo(t *testing.T) {
	h := newHarness(t, 5)
	ctx := context.Background()
	loan := h.approvedLoan(t, 2)

	ret := inventory.MovementInput{Type: entity.MovementTypeReturn, LoanMovementID: loan.ID, Quantity: 3, RequestedBy: personLuis}
	_, err := h.builder.CreateMovement(ctx, ret)
	assert.ErrorIs(t, err, domain.ErrOverReturn)

	req := h.outbound(t, entity.MovementTypeRequest, 1)
	ret.LoanMovementID, ret.Quantity = req.ID, 1
	_, err = h.builder.CreateMovement(ctx, ret)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}
