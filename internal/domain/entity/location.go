package entity

import "time"

// Tipos de ubicación de inventario.
const (
	LocationKindWarehouse = "warehouse" // bodega central
	LocationKindStore     = "store"     // tienda / punto de venta
)

// Location representa la bodega o una tienda: la unidad donde se controla el stock.
// ID es el código de negocio (ej. "warehouse", "STR002").
type Location struct {
	ID        string
	Name      string
	Kind      string // warehouse, store
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWarehouse indica si la ubicación es la bodega central.
func (l *Location) IsWarehouse() bool { return l.Kind == LocationKindWarehouse }
