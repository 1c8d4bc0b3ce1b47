package dto

import "time"

// CreateStockLotRequest body para POST /api/stock-lots (ingreso manual de stock).
type CreateStockLotRequest struct {
	MaterialID   int64   `json:"material_id" validate:"min=0"`
	SiteID       int64   `json:"site_id" validate:"min=0"`
	Quantity     int64   `json:"quantity"`
	RequiresCode bool    `json:"requires_code"`
	Code         *string `json:"code" validate:"omitempty,max=100"`
}

// ActivateStockLotRequest body opcional para activar un lote; code reemplaza al guardado.
type ActivateStockLotRequest struct {
	Code *string `json:"code" validate:"omitempty,max=100"`
}

// StockLotResponse salida de un lote.
type StockLotResponse struct {
	ID           int64     `json:"id"`
	MaterialID   int64     `json:"material_id"`
	SiteID       int64     `json:"site_id"`
	Quantity     int64     `json:"quantity"`
	Active       bool      `json:"active"`
	RequiresCode bool      `json:"requires_code"`
	Code         *string   `json:"code,omitempty"`
	OriginLotID  *int64    `json:"origin_lot_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockLotListResponse lista de lotes.
type StockLotListResponse struct {
	Items []StockLotResponse `json:"items"`
	Total int                `json:"total"`
}

// AvailableResponse cantidad disponible de un material en una sede.
type AvailableResponse struct {
	MaterialID int64 `json:"material_id"`
	SiteID     int64 `json:"site_id"`
	Available  int64 `json:"available"`
}
