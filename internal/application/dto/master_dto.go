package dto

import "time"

// CreateManufacturerRequest entrada para crear un laboratorio.
type CreateManufacturerRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	GSTIN         string `json:"gstin" validate:"omitempty,alphanum,max=20"`
	ContactPerson string `json:"contact_person" validate:"max=200"`
	Phone         string `json:"phone" validate:"max=30"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
}

// UpdateManufacturerRequest entrada para actualizar un laboratorio.
type UpdateManufacturerRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	GSTIN         *string `json:"gstin" validate:"omitempty,alphanum,max=20"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=200"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address"`
}

// ManufacturerResponse salida de un laboratorio.
type ManufacturerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	GSTIN         string    `json:"gstin"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ManufacturerListResponse lista paginada de laboratorios.
type ManufacturerListResponse struct {
	Items []ManufacturerResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// CreateCatalogItemRequest entrada para tipos de empaque y unidades.
// Description aplica a empaques; Abbreviation a unidades.
type CreateCatalogItemRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Description  string `json:"description" validate:"max=500"`
	Abbreviation string `json:"abbreviation" validate:"max=16"`
}

// CatalogItemResponse salida de un tipo de empaque o unidad.
type CatalogItemResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Abbreviation string    `json:"abbreviation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreatePatientRequest entrada para registrar un paciente.
type CreatePatientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"required,max=30"`
	Age     int    `json:"age" validate:"gte=0,lte=130"`
	Gender  string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address string `json:"address"`
}

// UpdatePatientRequest entrada para actualizar un paciente.
type UpdatePatientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Age     *int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	Gender  *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address *string `json:"address"`
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientListResponse lista paginada de pacientes.
type PatientListResponse struct {
	Items []PatientResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
