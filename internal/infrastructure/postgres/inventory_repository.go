package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la fila (ubicación, medicamento) o nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, locationID, medicineID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT location_id, medicine_id, medicine_name, quantity, updated_at
		FROM inventory WHERE location_id = $1 AND medicine_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, locationID, medicineID).Scan(
		&rec.LocationID, &rec.MedicineID, &rec.MedicineName, &rec.Quantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

// ListByLocation devuelve las filas con existencias de la ubicación.
func (r *InventoryRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT location_id, medicine_id, medicine_name, quantity, updated_at
		FROM inventory WHERE location_id = $1 AND quantity > 0
		ORDER BY medicine_name, medicine_id`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.LocationID, &rec.MedicineID, &rec.MedicineName, &rec.Quantity, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Increment crea la fila o suma delta en una sola sentencia.
func (r *InventoryRepo) Increment(ctx context.Context, locationID, medicineID, medicineName string, delta int64) error {
	query := `
		INSERT INTO inventory (location_id, medicine_id, medicine_name, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (location_id, medicine_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity,
		              medicine_name = COALESCE(NULLIF(EXCLUDED.medicine_name, ''), inventory.medicine_name),
		              updated_at = now()`
	if _, err := r.q.Exec(ctx, query, locationID, medicineID, medicineName, delta); err != nil {
		return fmt.Errorf("increment inventory: %w", err)
	}
	return nil
}

// DecrementIfAvailable resta delta solo si alcanza. El UPDATE condicional toma el lock de la fila,
// así dos descuentos concurrentes sobre la misma clave se serializan.
func (r *InventoryRepo) DecrementIfAvailable(ctx context.Context, locationID, medicineID string, delta int64) (bool, error) {
	query := `
		UPDATE inventory SET quantity = quantity - $3, updated_at = now()
		WHERE location_id = $1 AND medicine_id = $2 AND quantity >= $3`
	tag, err := r.q.Exec(ctx, query, locationID, medicineID, delta)
	if err != nil {
		return false, fmt.Errorf("decrement inventory: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
