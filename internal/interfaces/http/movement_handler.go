package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementHandler maneja creación, consulta y aprobación de movimientos (protegido).
type MovementHandler struct {
	builder  *inventory.CreateMovementUseCase
	approval *inventory.ApprovalUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(builder *inventory.CreateMovementUseCase, approval *inventory.ApprovalUseCase) *MovementHandler {
	return &MovementHandler{builder: builder, approval: approval}
}

// Create godoc
// @Summary      Registrar movimiento (REQUEST, LOAN o RETURN) en estado PENDING
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "tipo, material, sedes, cantidad; RETURN: loan_movement_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if ok, err := bindJSON(c, &in, false); !ok {
		return err
	}
	mov, err := h.builder.CreateMovement(c.UserContext(), inventory.MovementInput{
		Type:              in.Type,
		MaterialID:        in.MaterialID,
		Quantity:          in.Quantity,
		RequestedBy:       actor(c, in.RequestedBy),
		OriginSiteID:      in.OriginSiteID,
		DestinationSiteID: in.DestinationSiteID,
		LoanMovementID:    in.LoanMovementID,
		DetailID:          in.DetailID,
		Observations:      in.Observations,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	mov, err := h.approval.GetMovement(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// Approve godoc
// @Summary      Aprobar movimiento PENDING
// @Description  REQUEST descuenta stock; LOAN descuenta y abre saldo; RETURN liquida contra el préstamo.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true   "ID del movimiento"
// @Param        body  body  dto.DecisionRequest  false  "approver_id (por defecto la persona del token)"
// @Success      200   {object}  dto.MovementResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/approve [post]
func (h *MovementHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.approval.Approve)
}

// Reject godoc
// @Summary      Rechazar movimiento PENDING
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true   "ID del movimiento"
// @Param        body  body  dto.DecisionRequest  false  "approver_id (por defecto la persona del token)"
// @Success      200   {object}  dto.MovementResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/reject [post]
func (h *MovementHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.approval.Reject)
}

type decisionFunc func(ctx context.Context, movementID, approverID int64) (*entity.Movement, error)

func (h *MovementHandler) decide(c *fiber.Ctx, fn decisionFunc) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.DecisionRequest
	if ok, err := bindJSON(c, &in, true); !ok {
		return err
	}
	mov, err := fn(c.UserContext(), id, actor(c, in.ApproverID))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}
