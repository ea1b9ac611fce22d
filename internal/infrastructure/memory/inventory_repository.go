package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo filas (ubicación, medicamento) -> cantidad.
type InventoryRepo struct {
	store *Store
	inTx  bool
}

// NewInventoryRepository construye el repositorio fuera de transacción.
func NewInventoryRepository(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

func (r *InventoryRepo) Get(_ context.Context, locationID, medicineID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.store.with(r.inTx, func(st *state) error {
		if rec, ok := st.inventory[entity.InventoryKey(locationID, medicineID)]; ok {
			out = &rec
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	err := r.store.with(r.inTx, func(st *state) error {
		for _, rec := range st.inventory {
			if rec.LocationID == locationID && rec.Quantity > 0 {
				out = append(out, &rec)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].MedicineID < out[j].MedicineID })
	return out, err
}

func (r *InventoryRepo) Increment(_ context.Context, locationID, medicineID, medicineName string, delta int64) error {
	return r.store.with(r.inTx, func(st *state) error {
		key := entity.InventoryKey(locationID, medicineID)
		rec, ok := st.inventory[key]
		if !ok {
			rec = entity.InventoryRecord{LocationID: locationID, MedicineID: medicineID}
		}
		if medicineName != "" {
			rec.MedicineName = medicineName
		}
		rec.Quantity += delta
		rec.UpdatedAt = r.store.now()
		st.inventory[key] = rec
		return nil
	})
}

func (r *InventoryRepo) DecrementIfAvailable(_ context.Context, locationID, medicineID string, delta int64) (bool, error) {
	var ok bool
	err := r.store.with(r.inTx, func(st *state) error {
		key := entity.InventoryKey(locationID, medicineID)
		rec, found := st.inventory[key]
		if !found || rec.Quantity < delta {
			return nil
		}
		rec.Quantity -= delta
		rec.UpdatedAt = r.store.now()
		st.inventory[key] = rec
		ok = true
		return nil
	})
	return ok, err
}
