package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest entrada para crear un medicamento. Cost inicia en 0 y se calcula con las compras.
type CreateMedicineRequest struct {
	ID              string           `json:"id" validate:"required,min=1,max=32"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	GenericName     string           `json:"generic_name" validate:"max=200"`
	ManufacturerID  string           `json:"manufacturer_id"`
	PackagingID     string           `json:"packaging_id"`
	UnitID          string           `json:"unit_id"`
	HSNCode         string           `json:"hsn_code" validate:"omitempty,numeric,min=4,max=8"`
	Price           decimal.Decimal  `json:"price"`
	TaxRate         decimal.Decimal  `json:"tax_rate"` // fracción: 0, 0.05, 0.12, 0.18
	MinStock        map[string]int64 `json:"min_stock" validate:"omitempty,dive,gte=0"`
	DefaultMinStock int64            `json:"default_min_stock" validate:"gte=0"`
}

// UpdateMedicineRequest entrada para actualizar un medicamento (sin Cost ni stock).
type UpdateMedicineRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	GenericName     *string          `json:"generic_name" validate:"omitempty,max=200"`
	ManufacturerID  *string          `json:"manufacturer_id"`
	PackagingID     *string          `json:"packaging_id"`
	UnitID          *string          `json:"unit_id"`
	HSNCode         *string          `json:"hsn_code" validate:"omitempty,numeric,min=4,max=8"`
	Price           *decimal.Decimal `json:"price"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	MinStock        map[string]int64 `json:"min_stock" validate:"omitempty,dive,gte=0"`
	DefaultMinStock *int64           `json:"default_min_stock" validate:"omitempty,gte=0"`
}

// MedicineResponse salida de un medicamento.
type MedicineResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	GenericName     string           `json:"generic_name"`
	ManufacturerID  string           `json:"manufacturer_id"`
	PackagingID     string           `json:"packaging_id"`
	UnitID          string           `json:"unit_id"`
	HSNCode         string           `json:"hsn_code"`
	Price           decimal.Decimal  `json:"price"`
	Cost            decimal.Decimal  `json:"cost"`
	TaxRate         decimal.Decimal  `json:"tax_rate"`
	MinStock        map[string]int64 `json:"min_stock"`
	DefaultMinStock int64            `json:"default_min_stock"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MedicineListResponse lista paginada de medicamentos.
type MedicineListResponse struct {
	Items []MedicineResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
