package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// MaterialHandler expone los materiales elegibles para un movimiento (protegido).
type MaterialHandler struct {
	resolver *inventory.AvailabilityResolver
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(resolver *inventory.AvailabilityResolver) *MaterialHandler {
	return &MaterialHandler{resolver: resolver}
}

// Eligible godoc
// @Summary      Materiales elegibles por tipo de movimiento y sede
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        type     query  string  true   "REQUEST, LOAN o RETURN"
// @Param        site_id  query  int     false  "Sede a consultar"
// @Success      200  {object}  dto.EligibleMaterialListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/materials/eligible [get]
func (h *MaterialHandler) Eligible(c *fiber.Ctx) error {
	kind := strings.ToUpper(strings.TrimSpace(c.Query("type")))
	if kind == "" {
		return respondError(c, domain.MissingField("type"))
	}
	siteID, err := queryID(c, "site_id")
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.resolver.ListEligibleMaterials(c.UserContext(), kind, siteID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.EligibleMaterialResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.EligibleMaterialResponse{
			ID:             e.Material.ID,
			Name:           e.Material.Name,
			Description:    e.Material.Description,
			HomeSiteID:     e.Material.HomeSiteID,
			RequiresReturn: e.Material.RequiresReturn,
			Available:      e.Available,
		})
	}
	return c.JSON(dto.EligibleMaterialListResponse{Items: items, Total: len(items)})
}
