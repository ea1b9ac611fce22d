package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// InventoryRepository define el puerto para las filas (ubicación, medicamento) -> cantidad.
// Usado dentro de transacciones para garantizar consistencia con los registros de operación.
type InventoryRepository interface {
	// Get devuelve la fila o nil si no existe.
	Get(ctx context.Context, locationID, medicineID string) (*entity.InventoryRecord, error)
	// ListByLocation devuelve solo filas con cantidad > 0.
	ListByLocation(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error)
	// Increment crea la fila si no existe (cacheando el nombre) o suma delta.
	Increment(ctx context.Context, locationID, medicineID, medicineName string, delta int64) error
	// DecrementIfAvailable resta delta solo si quantity >= delta, en una única operación atómica.
	// Devuelve false (sin cambios) si no había stock suficiente.
	DecrementIfAvailable(ctx context.Context, locationID, medicineID string, delta int64) (bool, error)
}
