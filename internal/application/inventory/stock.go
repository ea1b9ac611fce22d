package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MoveItem renglón de un traslado entre ubicaciones.
type MoveItem struct {
	MedicineID   string
	MedicineName string
	Quantity     int64
}

// StockService expone el almacén de inventario por ubicación: consulta, entrada, salida y traslado.
// Cada mutación corre en su propia transacción; los registradores reutilizan las mismas
// operaciones dentro de su transacción.
type StockService struct {
	txRunner TxRunner
	invRepo  repository.InventoryRepository
}

// NewStockService construye el servicio.
func NewStockService(txRunner TxRunner, invRepo repository.InventoryRepository) *StockService {
	return &StockService{txRunner: txRunner, invRepo: invRepo}
}

// Get devuelve la cantidad actual; 0 si la fila no existe.
func (s *StockService) Get(ctx context.Context, locationID, medicineID string) (int64, error) {
	rec, err := s.invRepo.Get(ctx, locationID, medicineID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}

// ListByLocation lista las filas con cantidad > 0 de una ubicación.
func (s *StockService) ListByLocation(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.invRepo.ListByLocation(ctx, locationID)
}

// Increment suma delta (> 0), creando la fila si no existe.
func (s *StockService) Increment(ctx context.Context, locationID, medicineID, medicineName string, delta int64) error {
	return s.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.LogRepository, _ repository.MedicineRepository) error {
		return increment(ctx, invRepo, locationID, medicineID, medicineName, delta)
	})
}

// Decrement resta delta (> 0) solo si hay stock suficiente; si no, *domain.InsufficientStockError y sin cambios.
func (s *StockService) Decrement(ctx context.Context, locationID, medicineID string, delta int64) error {
	return s.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.LogRepository, _ repository.MedicineRepository) error {
		return decrement(ctx, invRepo, locationID, medicineID, delta)
	})
}

// Move traslada todos los renglones de `from` a `to` o ninguno.
func (s *StockService) Move(ctx context.Context, from, to string, items []MoveItem) error {
	return s.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.LogRepository, _ repository.MedicineRepository) error {
		return move(ctx, invRepo, from, to, items)
	})
}

func increment(ctx context.Context, invRepo repository.InventoryRepository, locationID, medicineID, medicineName string, delta int64) error {
	if locationID == "" || medicineID == "" || delta <= 0 {
		return domain.ErrInvalidInput
	}
	return invRepo.Increment(ctx, locationID, medicineID, medicineName, delta)
}

// decrement usa la resta condicional atómica del repositorio; no hay lectura-comparación-escritura.
func decrement(ctx context.Context, invRepo repository.InventoryRepository, locationID, medicineID string, delta int64) error {
	if locationID == "" || medicineID == "" || delta <= 0 {
		return domain.ErrInvalidInput
	}
	ok, err := invRepo.DecrementIfAvailable(ctx, locationID, medicineID, delta)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	var available int64
	rec, err := invRepo.Get(ctx, locationID, medicineID)
	if err != nil {
		return fmt.Errorf("consultar stock disponible: %w", err)
	}
	if rec != nil {
		available = rec.Quantity
	}
	return &domain.InsufficientStockError{
		LocationID: locationID,
		MedicineID: medicineID,
		Requested:  delta,
		Available:  available,
	}
}

// move siempre valida stock en el origen: nunca deja cantidades negativas.
func move(ctx context.Context, invRepo repository.InventoryRepository, from, to string, items []MoveItem) error {
	if from == "" || to == "" || from == to || len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, it := range items {
		if err := decrement(ctx, invRepo, from, it.MedicineID, it.Quantity); err != nil {
			return err
		}
		if err := increment(ctx, invRepo, to, it.MedicineID, it.MedicineName, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}
