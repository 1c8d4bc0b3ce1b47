package entity

// Person representa a quien solicita, aprueba o devuelve material.
type Person struct {
	ID     int64
	Name   string
	Active bool
}
