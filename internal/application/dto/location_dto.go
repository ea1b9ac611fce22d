package dto

import "time"

// CreateLocationRequest entrada para crear una bodega o tienda.
type CreateLocationRequest struct {
	ID      string `json:"id" validate:"required,min=1,max=32,alphanumunicode"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Kind    string `json:"kind" validate:"required,oneof=warehouse store"`
	Address string `json:"address"`
}

// UpdateLocationRequest entrada para actualizar una ubicación (el tipo no cambia).
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
