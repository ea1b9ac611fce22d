package entity

import "time"

// Manufacturer representa un laboratorio / proveedor de medicamentos.
type Manufacturer struct {
	ID            string
	Name          string
	GSTIN         string // identificación tributaria; única cuando no está vacía
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
