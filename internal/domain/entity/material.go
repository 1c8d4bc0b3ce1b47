package entity

import "time"

// Material representa un ítem del catálogo (administrado fuera de este servicio).
// HomeSiteID es la sede "dueña" del material; un material puede tener stock en otras sedes.
type Material struct {
	ID             int64
	Name           string
	Description    string
	HasExpiry      bool
	ExpiresAt      *time.Time
	Active         bool
	HomeSiteID     int64
	IsOriginal     bool
	RequiresReturn bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
