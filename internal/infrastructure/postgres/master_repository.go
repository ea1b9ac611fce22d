package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
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

// execOne ejecuta una escritura que debe afectar exactamente una fila.
func execOne(ctx context.Context, q Querier, op, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return writeError(op, err, domain.ErrDuplicate)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// insert ejecuta un INSERT mapeando 23505 a domain.ErrDuplicate.
func insert(ctx context.Context, q Querier, op, query string, args ...any) error {
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return writeError(op, err, domain.ErrDuplicate)
	}
	return nil
}

// ── Locations ──────────────────────────────────────────────────────────────

// LocationRepo bodega y tiendas.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, name, kind, address, created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Name, &l.Kind, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	return insert(ctx, r.q, "insert location",
		`INSERT INTO locations (`+locationColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.Name, l.Kind, l.Address, l.CreatedAt, l.UpdatedAt)
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	return execOne(ctx, r.q, "update location",
		`UPDATE locations SET name = $2, kind = $3, address = $4, updated_at = $5 WHERE id = $1`,
		l.ID, l.Name, l.Kind, l.Address, l.UpdatedAt)
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete location", `DELETE FROM locations WHERE id = $1`, id)
}

// ── Medicines ──────────────────────────────────────────────────────────────

// MedicineRepo maestro de medicamentos; name_key guarda el nombre normalizado para la unicidad.
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

const medicineColumns = `id, name, generic_name, manufacturer_id, packaging_id, unit_id, hsn_code,
	price, cost, tax_rate, min_stock, default_min_stock, created_at, updated_at`

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.GenericName, &m.ManufacturerID, &m.PackagingID, &m.UnitID, &m.HSNCode,
		&m.Price, &m.Cost, &m.TaxRate, &m.MinStock, &m.DefaultMinStock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func minStockParam(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}

func (r *MedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	return insert(ctx, r.q, "insert medicine", `
		INSERT INTO medicines (`+medicineColumns+`, name_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		m.ID, m.Name, m.GenericName, m.ManufacturerID, m.PackagingID, m.UnitID, m.HSNCode,
		m.Price, m.Cost, m.TaxRate, minStockParam(m.MinStock), m.DefaultMinStock, m.CreatedAt, m.UpdatedAt,
		entity.NameKey(m.Name))
}

func (r *MedicineRepo) getOne(ctx context.Context, where string, arg any) (*entity.Medicine, error) {
	m, err := scanMedicine(r.q.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetForUpdate toma FOR UPDATE sobre la fila; dos compras del mismo medicamento se serializan
// y la segunda ve el costo y el stock que dejó la primera.
func (r *MedicineRepo) GetForUpdate(ctx context.Context, id string) (*entity.Medicine, error) {
	return r.getOne(ctx, "id = $1 FOR UPDATE", id)
}

func (r *MedicineRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Medicine, error) {
	return r.getOne(ctx, "name_key = $1", nameKey)
}

func (r *MedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	return execOne(ctx, r.q, "update medicine", `
		UPDATE medicines SET name = $2, name_key = $3, generic_name = $4, manufacturer_id = $5,
			packaging_id = $6, unit_id = $7, hsn_code = $8, price = $9, tax_rate = $10,
			min_stock = $11, default_min_stock = $12, updated_at = $13
		WHERE id = $1`,
		m.ID, m.Name, entity.NameKey(m.Name), m.GenericName, m.ManufacturerID,
		m.PackagingID, m.UnitID, m.HSNCode, m.Price, m.TaxRate,
		minStockParam(m.MinStock), m.DefaultMinStock, m.UpdatedAt)
}

// UpdateCost actualiza solo el costo promedio (recalculado por las compras).
func (r *MedicineRepo) UpdateCost(ctx context.Context, medicineID string, cost decimal.Decimal) error {
	return execOne(ctx, r.q, "update medicine cost",
		`UPDATE medicines SET cost = $2, updated_at = now() WHERE id = $1`, medicineID, cost)
}

func (r *MedicineRepo) List(ctx context.Context, limit, offset int) ([]*entity.Medicine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+medicineColumns+` FROM medicines
		ORDER BY name, id LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()
	var out []*entity.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete medicine", `DELETE FROM medicines WHERE id = $1`, id)
}

// ── Manufacturers ──────────────────────────────────────────────────────────

// ManufacturerRepo laboratorios; gstin vacío se guarda como NULL para no chocar con el índice único.
type ManufacturerRepo struct {
	q Querier
}

// NewManufacturerRepository construye el adaptador.
func NewManufacturerRepository(q Querier) *ManufacturerRepo {
	return &ManufacturerRepo{q: q}
}

const manufacturerColumns = `id, name, COALESCE(gstin, ''), contact_person, phone, email, address, created_at, updated_at`

func scanManufacturer(row pgx.Row) (*entity.Manufacturer, error) {
	var m entity.Manufacturer
	err := row.Scan(&m.ID, &m.Name, &m.GSTIN, &m.ContactPerson, &m.Phone, &m.Email, &m.Address, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ManufacturerRepo) Create(ctx context.Context, m *entity.Manufacturer) error {
	return insert(ctx, r.q, "insert manufacturer", `
		INSERT INTO manufacturers (id, name, name_key, gstin, contact_person, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Name, entity.NameKey(m.Name), m.GSTIN, m.ContactPerson, m.Phone, m.Email, m.Address, m.CreatedAt, m.UpdatedAt)
}

func (r *ManufacturerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Manufacturer, error) {
	m, err := scanManufacturer(r.q.QueryRow(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturer: %w", err)
	}
	return m, nil
}

func (r *ManufacturerRepo) GetByID(ctx context.Context, id string) (*entity.Manufacturer, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *ManufacturerRepo) GetByNameKey(ctx context.Context, nameKey string) (*entity.Manufacturer, error) {
	return r.getOne(ctx, "name_key = $1", nameKey)
}

func (r *ManufacturerRepo) GetByGSTIN(ctx context.Context, gstin string) (*entity.Manufacturer, error) {
	return r.getOne(ctx, "gstin = $1", gstin)
}

func (r *ManufacturerRepo) Update(ctx context.Context, m *entity.Manufacturer) error {
	return execOne(ctx, r.q, "update manufacturer", `
		UPDATE manufacturers SET name = $2, name_key = $3, gstin = NULLIF($4, ''), contact_person = $5,
			phone = $6, email = $7, address = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.Name, entity.NameKey(m.Name), m.GSTIN, m.ContactPerson, m.Phone, m.Email, m.Address, m.UpdatedAt)
}

func (r *ManufacturerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Manufacturer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers
		ORDER BY name, id LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()
	var out []*entity.Manufacturer
	for rows.Next() {
		m, err := scanManufacturer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ManufacturerRepo) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete manufacturer", `DELETE FROM manufacturers WHERE id = $1`, id)
}

// ── Catalogs ───────────────────────────────────────────────────────────────

// CatalogRepo tipos de empaque y unidades.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) CreatePackaging(ctx context.Context, p *entity.PackagingType) error {
	return insert(ctx, r.q, "insert packaging type",
		`INSERT INTO packaging_types (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
}

func (r *CatalogRepo) ListPackaging(ctx context.Context) ([]*entity.PackagingType, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM packaging_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packaging types: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PackagingType, error) {
		var p entity.PackagingType
		err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
		return &p, err
	})
}

func (r *CatalogRepo) DeletePackaging(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete packaging type", `DELETE FROM packaging_types WHERE id = $1`, id)
}

func (r *CatalogRepo) CreateUnit(ctx context.Context, u *entity.UnitType) error {
	return insert(ctx, r.q, "insert unit type",
		`INSERT INTO unit_types (id, name, abbreviation, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Abbreviation, u.CreatedAt, u.UpdatedAt)
}

func (r *CatalogRepo) ListUnits(ctx context.Context) ([]*entity.UnitType, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, abbreviation, created_at, updated_at FROM unit_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list unit types: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.UnitType, error) {
		var u entity.UnitType
		err := row.Scan(&u.ID, &u.Name, &u.Abbreviation, &u.CreatedAt, &u.UpdatedAt)
		return &u, err
	})
}

func (r *CatalogRepo) DeleteUnit(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete unit type", `DELETE FROM unit_types WHERE id = $1`, id)
}

// ── Patients ───────────────────────────────────────────────────────────────

// PatientRepo fichas de pacientes.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador.
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

const patientColumns = `id, name, phone, age, gender, address, created_at, updated_at`

func scanPatient(row pgx.Row) (*entity.Patient, error) {
	var p entity.Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Age, &p.Gender, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	return insert(ctx, r.q, "insert patient", `
		INSERT INTO patients (`+patientColumns+`, name_key) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Phone, p.Age, p.Gender, p.Address, p.CreatedAt, p.UpdatedAt, entity.NameKey(p.Name))
}

func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	return execOne(ctx, r.q, "update patient", `
		UPDATE patients SET name = $2, name_key = $3, phone = $4, age = $5, gender = $6, address = $7, updated_at = $8
		WHERE id = $1`,
		p.ID, p.Name, entity.NameKey(p.Name), p.Phone, p.Age, p.Gender, p.Address, p.UpdatedAt)
}

// Search busca por nombre normalizado o por teléfono; query vacío lista todos.
func (r *PatientRepo) Search(ctx context.Context, query string, limit, offset int) ([]*entity.Patient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+patientColumns+` FROM patients
		WHERE $1 = '' OR name_key LIKE '%' || $2 || '%' OR phone LIKE '%' || $1 || '%'
		ORDER BY name, id LIMIT NULLIF($3, 0) OFFSET $4`,
		query, entity.NameKey(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	defer rows.Close()
	var out []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.q, "delete patient", `DELETE FROM patients WHERE id = $1`, id)
}
