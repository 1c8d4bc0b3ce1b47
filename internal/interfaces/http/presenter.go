package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		Type:              m.Type,
		State:             m.State,
		Quantity:          m.Quantity,
		MaterialID:        m.MaterialID,
		RequestedBy:       m.RequestedBy,
		ApprovedBy:        m.ApprovedBy,
		OriginSiteID:      m.OriginSiteID,
		DestinationSiteID: m.DestinationSiteID,
		LoanMovementID:    m.LoanMovementID,
		LoanID:            m.LoanID,
		DetailID:          m.DetailID,
		Observations:      m.Observations,
		TransactionID:     m.TransactionID,
		ApprovedAt:        m.ApprovedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toMovementList(list []*entity.Movement) dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return dto.MovementListResponse{Items: items, Total: len(items)}
}

func toLoanResponse(l *entity.Loan) dto.LoanResponse {
	return dto.LoanResponse{
		ID:                l.ID,
		MovementID:        l.MovementID,
		MaterialID:        l.MaterialID,
		OriginSiteID:      l.OriginSiteID,
		DestinationSiteID: l.DestinationSiteID,
		Quantity:          l.Quantity,
		Balance:           l.Balance,
		Active:            l.Active,
		ReturnedAt:        l.ReturnedAt,
	}
}

func toSettlementResponse(s *inventory.Settlement) dto.SettlementResponse {
	return dto.SettlementResponse{
		Return:       toMovementResponse(s.Return),
		LoanMovement: toMovementResponse(s.LoanMovement),
		Loan:         toLoanResponse(s.Loan),
	}
}

func toStockLotResponse(l *entity.StockLot) dto.StockLotResponse {
	return dto.StockLotResponse{
		ID:           l.ID,
		MaterialID:   l.MaterialID,
		SiteID:       l.SiteID,
		Quantity:     l.Quantity,
		Active:       l.Active,
		RequiresCode: l.RequiresCode,
		Code:         l.Code,
		OriginLotID:  l.OriginLotID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// paramID lee el :id de la ruta.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.FieldError{Field: "id", Err: domain.ErrInvalidInput}
	}
	return id, nil
}

// queryID lee un ID opcional de la query string (nil si no viene).
func queryID(c *fiber.Ctx, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &domain.FieldError{Field: name, Err: domain.ErrInvalidInput}
	}
	return &id, nil
}

// requireQueryID como queryID pero la ausencia es ErrMissingRequiredField.
func requireQueryID(c *fiber.Ctx, name string) (int64, error) {
	id, err := queryID(c, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, domain.MissingField(name)
	}
	return *id, nil
}

// actor devuelve explicit si viene informado; si no, la persona del token.
func actor(c *fiber.Ctx, explicit int64) int64 {
	if explicit != 0 {
		return explicit
	}
	return GetPersonID(c)
}
