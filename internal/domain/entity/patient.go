package entity

import "time"

// Patient representa la ficha de un paciente; una venta puede referenciarlo.
type Patient struct {
	ID        string
	Name      string
	Phone     string // formato E.164 tras validar
	Age       int
	Gender    string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
