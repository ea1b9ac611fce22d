package inventory

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el registro de operación y los cambios de inventario se confirmen juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		logRepo repository.LogRepository,
		medicineRepo repository.MedicineRepository,
	) error) error
}
