package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
)

// LoanHandler expone préstamos activos y liquidación de devoluciones (protegido).
type LoanHandler struct {
	uc *inventory.LoanReturnUseCase
}

// NewLoanHandler construye el handler.
func NewLoanHandler(uc *inventory.LoanReturnUseCase) *LoanHandler {
	return &LoanHandler{uc: uc}
}

// ListActive godoc
// @Summary      Préstamos con saldo pendiente de un material
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int  true  "ID del material"
// @Success      200  {object}  dto.ActiveLoanListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/loans/active [get]
func (h *LoanHandler) ListActive(c *fiber.Ctx) error {
	materialID, err := requireQueryID(c, "material_id")
	if err != nil {
		return respondError(c, err)
	}
	loans, err := h.uc.ActiveLoans(c.UserContext(), materialID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ActiveLoanResponse, 0, len(loans))
	for _, l := range loans {
		items = append(items, dto.ActiveLoanResponse{
			Movement: toMovementResponse(l.Movement),
			Loan:     toLoanResponse(l.Loan),
		})
	}
	return c.JSON(dto.ActiveLoanListResponse{Items: items, Total: len(items)})
}

// SettleReturn godoc
// @Summary      Liquidar devolución contra un préstamo
// @Description  Restituye stock en la sede de origen y descuenta el saldo; en cero el préstamo queda RETURNED.
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID del movimiento de préstamo"
// @Param        body  body  dto.SettleReturnRequest  true  "quantity; person_id opcional"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/returns [post]
func (h *LoanHandler) SettleReturn(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SettleReturnRequest
	if ok, err := bindJSON(c, &in, false); !ok {
		return err
	}
	s, err := h.uc.SettleReturn(c.UserContext(), id, in.Quantity, actor(c, in.PersonID))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSettlementResponse(s))
}

// ListReturns godoc
// @Summary      Historial de devoluciones de un préstamo
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento de préstamo"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/returns [get]
func (h *LoanHandler) ListReturns(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListReturns(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementList(list))
}
