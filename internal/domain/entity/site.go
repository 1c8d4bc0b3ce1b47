package entity

// Site representa una sede o centro donde se almacena stock.
type Site struct {
	ID     int64
	Name   string
	Active bool
}
