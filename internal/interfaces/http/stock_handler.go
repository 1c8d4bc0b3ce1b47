package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
)

// StockHandler maneja lotes de stock y consulta de disponible (protegido).
type StockHandler struct {
	uc *inventory.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockLedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// CreateLot godoc
// @Summary      Registrar lote de stock
// @Description  Si requires_code es true el lote queda inactivo hasta activarlo con código.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockLotRequest  true  "material_id, site_id, quantity"
// @Success      201   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-lots [post]
func (h *StockHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateStockLotRequest
	if ok, err := bindJSON(c, &in, false); !ok {
		return err
	}
	lot, err := h.uc.CreateLot(c.UserContext(), inventory.CreateLotInput{
		MaterialID:   in.MaterialID,
		SiteID:       in.SiteID,
		Quantity:     in.Quantity,
		RequiresCode: in.RequiresCode,
		Code:         in.Code,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockLotResponse(lot))
}

// ListLots godoc
// @Summary      Listar lotes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int  false  "Filtrar por material"
// @Param        site_id      query  int  false  "Filtrar por sede"
// @Success      200  {object}  dto.StockLotListResponse
// @Router       /api/stock-lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	materialID, err := queryID(c, "material_id")
	if err != nil {
		return respondError(c, err)
	}
	siteID, err := queryID(c, "site_id")
	if err != nil {
		return respondError(c, err)
	}
	lots, err := h.uc.ListLots(c.UserContext(), materialID, siteID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.StockLotResponse, 0, len(lots))
	for _, l := range lots {
		items = append(items, toStockLotResponse(l))
	}
	return c.JSON(dto.StockLotListResponse{Items: items, Total: len(items)})
}

// Activate godoc
// @Summary      Activar lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true   "ID del lote"
// @Param        body  body  dto.ActivateStockLotRequest  false  "code (requerido si el lote exige código y no tiene)"
// @Success      200   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-lots/{id}/activate [post]
func (h *StockHandler) Activate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ActivateStockLotRequest
	if ok, err := bindJSON(c, &in, true); !ok {
		return err
	}
	lot, err := h.uc.Activate(c.UserContext(), id, in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLotResponse(lot))
}

// Deactivate godoc
// @Summary      Desactivar lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del lote"
// @Success      200  {object}  dto.StockLotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-lots/{id}/deactivate [post]
func (h *StockHandler) Deactivate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	lot, err := h.uc.Deactivate(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLotResponse(lot))
}

// Delete godoc
// @Summary      Eliminar lote
// @Description  Falla con 409 si algún movimiento tomó unidades del lote.
// @Tags         stock
// @Security     Bearer
// @Param        id   path  int  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-lots/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Available godoc
// @Summary      Stock disponible de un material en una sede
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  int  true  "ID del material"
// @Param        site_id      query  int  true  "ID de la sede"
// @Success      200  {object}  dto.AvailableResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/available [get]
func (h *StockHandler) Available(c *fiber.Ctx) error {
	materialID, err := requireQueryID(c, "material_id")
	if err != nil {
		return respondError(c, err)
	}
	siteID, err := requireQueryID(c, "site_id")
	if err != nil {
		return respondError(c, err)
	}
	qty, err := h.uc.AvailableQuantity(c.UserContext(), materialID, siteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailableResponse{MaterialID: materialID, SiteID: siteID, Available: qty})
}
