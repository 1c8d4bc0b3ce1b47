package dto

// EligibleMaterialResponse material elegible con su disponible en la sede consultada.
type EligibleMaterialResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	HomeSiteID     int64  `json:"home_site_id"`
	RequiresReturn bool   `json:"requires_return"`
	Available      int64  `json:"available"`
}

// EligibleMaterialListResponse lista de materiales elegibles.
type EligibleMaterialListResponse struct {
	Items []EligibleMaterialResponse `json:"items"`
	Total int                        `json:"total"`
}
