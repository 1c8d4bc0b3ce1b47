package entity

import "time"

// Detail es una línea (material, cantidad) de una solicitud de varias líneas.
// Su estado refleja el desenlace del movimiento vinculado.
type Detail struct {
	ID         int64
	RequestID  int64
	MaterialID int64
	Quantity   int64
	State      string
	UpdatedAt  time.Time
}
