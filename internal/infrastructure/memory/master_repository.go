package memory

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.LocationRepository     = (*LocationRepo)(nil)
	_ repository.MedicineRepository     = (*MedicineRepo)(nil)
	_ repository.ManufacturerRepository = (*ManufacturerRepo)(nil)
	_ repository.CatalogRepository      = (*CatalogRepo)(nil)
	_ repository.PatientRepository      = (*PatientRepo)(nil)
)

// page aplica limit/offset a una lista ya ordenada.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ── Locations ──────────────────────────────────────────────────────────────

// LocationRepo bodega y tiendas.
type LocationRepo struct{ store *Store }

// NewLocationRepository construye el repositorio.
func NewLocationRepository(store *Store) *LocationRepo { return &LocationRepo{store: store} }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.locations[l.ID]; ok {
			return domain.ErrDuplicate
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.store.with(false, func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.locations[l.ID]; !ok {
			return domain.ErrNotFound
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.store.with(false, func(st *state) error {
		for _, l := range st.locations {
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.locations, id)
		return nil
	})
}

// ── Medicines ──────────────────────────────────────────────────────────────

// MedicineRepo maestro de medicamentos.
type MedicineRepo struct {
	store *Store
	inTx  bool
}

// NewMedicineRepository construye el repositorio fuera de transacción.
func NewMedicineRepository(store *Store) *MedicineRepo { return &MedicineRepo{store: store} }

func cloneMedicine(m entity.Medicine) *entity.Medicine {
	m.MinStock = maps.Clone(m.MinStock)
	return &m
}

func medicineNameTaken(st *state, m *entity.Medicine) bool {
	key := entity.NameKey(m.Name)
	for id, other := range st.medicines {
		if id != m.ID && entity.NameKey(other.Name) == key {
			return true
		}
	}
	return false
}

func (r *MedicineRepo) Create(_ context.Context, m *entity.Medicine) error {
	return r.store.with(r.inTx, func(st *state) error {
		if _, ok := st.medicines[m.ID]; ok || medicineNameTaken(st, m) {
			return domain.ErrDuplicate
		}
		st.medicines[m.ID] = *cloneMedicine(*m)
		return nil
	})
}

func (r *MedicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	var out *entity.Medicine
	err := r.store.with(r.inTx, func(st *state) error {
		if m, ok := st.medicines[id]; ok {
			out = cloneMedicine(m)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción en memoria ya es exclusiva.
func (r *MedicineRepo) GetForUpdate(ctx context.Context, id string) (*entity.Medicine, error) {
	return r.GetByID(ctx, id)
}

func (r *MedicineRepo) GetByNameKey(_ context.Context, nameKey string) (*entity.Medicine, error) {
	var out *entity.Medicine
	err := r.store.with(r.inTx, func(st *state) error {
		for _, m := range st.medicines {
			if entity.NameKey(m.Name) == nameKey {
				out = cloneMedicine(m)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MedicineRepo) Update(_ context.Context, m *entity.Medicine) error {
	return r.store.with(r.inTx, func(st *state) error {
		if _, ok := st.medicines[m.ID]; !ok {
			return domain.ErrNotFound
		}
		if medicineNameTaken(st, m) {
			return domain.ErrDuplicate
		}
		st.medicines[m.ID] = *cloneMedicine(*m)
		return nil
	})
}

func (r *MedicineRepo) UpdateCost(_ context.Context, medicineID string, cost decimal.Decimal) error {
	return r.store.with(r.inTx, func(st *state) error {
		m, ok := st.medicines[medicineID]
		if !ok {
			return domain.ErrNotFound
		}
		m.Cost = cost
		m.UpdatedAt = r.store.now()
		st.medicines[medicineID] = m
		return nil
	})
}

func (r *MedicineRepo) List(_ context.Context, limit, offset int) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	err := r.store.with(r.inTx, func(st *state) error {
		for _, m := range st.medicines {
			out = append(out, cloneMedicine(m))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), err
}

func (r *MedicineRepo) Delete(_ context.Context, id string) error {
	return r.store.with(r.inTx, func(st *state) error {
		if _, ok := st.medicines[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.medicines, id)
		return nil
	})
}

// ── Manufacturers ──────────────────────────────────────────────────────────

// ManufacturerRepo laboratorios.
type ManufacturerRepo struct{ store *Store }

// NewManufacturerRepository construye el repositorio.
func NewManufacturerRepository(store *Store) *ManufacturerRepo {
	return &ManufacturerRepo{store: store}
}

func manufacturerTaken(st *state, m *entity.Manufacturer) bool {
	key := entity.NameKey(m.Name)
	for id, other := range st.manufacturers {
		if id == m.ID {
			continue
		}
		if entity.NameKey(other.Name) == key || (m.GSTIN != "" && other.GSTIN == m.GSTIN) {
			return true
		}
	}
	return false
}

func (r *ManufacturerRepo) Create(_ context.Context, m *entity.Manufacturer) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.manufacturers[m.ID]; ok || manufacturerTaken(st, m) {
			return domain.ErrDuplicate
		}
		st.manufacturers[m.ID] = *m
		return nil
	})
}

func (r *ManufacturerRepo) find(match func(entity.Manufacturer) bool) (*entity.Manufacturer, error) {
	var out *entity.Manufacturer
	err := r.store.with(false, func(st *state) error {
		for _, m := range st.manufacturers {
			if match(m) {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ManufacturerRepo) GetByID(_ context.Context, id string) (*entity.Manufacturer, error) {
	return r.find(func(m entity.Manufacturer) bool { return m.ID == id })
}

func (r *ManufacturerRepo) GetByNameKey(_ context.Context, nameKey string) (*entity.Manufacturer, error) {
	return r.find(func(m entity.Manufacturer) bool { return entity.NameKey(m.Name) == nameKey })
}

func (r *ManufacturerRepo) GetByGSTIN(_ context.Context, gstin string) (*entity.Manufacturer, error) {
	if gstin == "" {
		return nil, nil
	}
	return r.find(func(m entity.Manufacturer) bool { return m.GSTIN == gstin })
}

func (r *ManufacturerRepo) Update(_ context.Context, m *entity.Manufacturer) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.manufacturers[m.ID]; !ok {
			return domain.ErrNotFound
		}
		if manufacturerTaken(st, m) {
			return domain.ErrDuplicate
		}
		st.manufacturers[m.ID] = *m
		return nil
	})
}

func (r *ManufacturerRepo) List(_ context.Context, limit, offset int) ([]*entity.Manufacturer, error) {
	var out []*entity.Manufacturer
	err := r.store.with(false, func(st *state) error {
		for _, m := range st.manufacturers {
			out = append(out, &m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *ManufacturerRepo) Delete(_ context.Context, id string) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.manufacturers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.manufacturers, id)
		return nil
	})
}

// ── Catalogs ───────────────────────────────────────────────────────────────

// CatalogRepo tipos de empaque y unidades.
type CatalogRepo struct{ store *Store }

// NewCatalogRepository construye el repositorio.
func NewCatalogRepository(store *Store) *CatalogRepo { return &CatalogRepo{store: store} }

func (r *CatalogRepo) CreatePackaging(_ context.Context, p *entity.PackagingType) error {
	return r.store.with(false, func(st *state) error {
		for id, other := range st.packaging {
			if id == p.ID || entity.NameKey(other.Name) == entity.NameKey(p.Name) {
				return domain.ErrDuplicate
			}
		}
		st.packaging[p.ID] = *p
		return nil
	})
}

func (r *CatalogRepo) ListPackaging(_ context.Context) ([]*entity.PackagingType, error) {
	var out []*entity.PackagingType
	err := r.store.with(false, func(st *state) error {
		for _, p := range st.packaging {
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *CatalogRepo) DeletePackaging(_ context.Context, id string) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.packaging[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.packaging, id)
		return nil
	})
}

func (r *CatalogRepo) CreateUnit(_ context.Context, u *entity.UnitType) error {
	return r.store.with(false, func(st *state) error {
		for id, other := range st.units {
			if id == u.ID || entity.NameKey(other.Name) == entity.NameKey(u.Name) {
				return domain.ErrDuplicate
			}
		}
		st.units[u.ID] = *u
		return nil
	})
}

func (r *CatalogRepo) ListUnits(_ context.Context) ([]*entity.UnitType, error) {
	var out []*entity.UnitType
	err := r.store.with(false, func(st *state) error {
		for _, u := range st.units {
			out = append(out, &u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *CatalogRepo) DeleteUnit(_ context.Context, id string) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.units[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.units, id)
		return nil
	})
}

// ── Patients ───────────────────────────────────────────────────────────────

// PatientRepo fichas de pacientes.
type PatientRepo struct{ store *Store }

// NewPatientRepository construye el repositorio.
func NewPatientRepository(store *Store) *PatientRepo { return &PatientRepo{store: store} }

func (r *PatientRepo) Create(_ context.Context, p *entity.Patient) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.patients[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.patients[p.ID] = *p
		return nil
	})
}

func (r *PatientRepo) GetByID(_ context.Context, id string) (*entity.Patient, error) {
	var out *entity.Patient
	err := r.store.with(false, func(st *state) error {
		if p, ok := st.patients[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *PatientRepo) Update(_ context.Context, p *entity.Patient) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.patients[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.patients[p.ID] = *p
		return nil
	})
}

// Search busca por nombre (sin tildes ni mayúsculas) o por teléfono.
func (r *PatientRepo) Search(_ context.Context, query string, limit, offset int) ([]*entity.Patient, error) {
	q := entity.NameKey(query)
	var out []*entity.Patient
	err := r.store.with(false, func(st *state) error {
		for _, p := range st.patients {
			if q == "" || strings.Contains(entity.NameKey(p.Name), q) || strings.Contains(p.Phone, query) {
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *PatientRepo) Delete(_ context.Context, id string) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.patients[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.patients, id)
		return nil
	})
}
