package entity

import "time"

// InventoryRecord representa la cantidad de un medicamento en una ubicación (clave location+medicine).
// Quantity nunca es negativa; el registro se crea con la primera entrada y no se elimina.
type InventoryRecord struct {
	LocationID   string
	MedicineID   string
	MedicineName string // copia desnormalizada para listados
	Quantity     int64
	UpdatedAt    time.Time
}

// Key devuelve la clave compuesta "{location}_{medicine}".
func (r *InventoryRecord) Key() string {
	return InventoryKey(r.LocationID, r.MedicineID)
}

// InventoryKey arma la clave compuesta de una fila de inventario.
func InventoryKey(locationID, medicineID string) string {
	return locationID + "_" + medicineID
}
