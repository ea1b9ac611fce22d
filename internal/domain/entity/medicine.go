package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa el maestro de medicamentos.
// Cost es promedio ponderado calculado desde las compras; el stock vive en InventoryRecord.
type Medicine struct {
	ID              string // código de negocio, ej. "MED001"
	Name            string
	GenericName     string
	ManufacturerID  string
	PackagingID     string
	UnitID          string
	HSNCode         string
	Price           decimal.Decimal  // precio de venta (MRP)
	Cost            decimal.Decimal  // costo promedio ponderado (inicia en 0)
	TaxRate         decimal.Decimal  // GST como fracción: 0, 0.05, 0.12, 0.18
	MinStock        map[string]int64 // umbral de alerta por ubicación
	DefaultMinStock int64            // umbral cuando la ubicación no tiene uno propio
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ThresholdFor devuelve el umbral mínimo para la ubicación indicada.
func (m *Medicine) ThresholdFor(locationID string) int64 {
	if v, ok := m.MinStock[locationID]; ok {
		return v
	}
	return m.DefaultMinStock
}
