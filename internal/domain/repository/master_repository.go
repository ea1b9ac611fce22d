package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LocationRepository puerto de persistencia para bodega y tiendas.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}

// MedicineRepository puerto de persistencia para el maestro de medicamentos.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	// GetForUpdate lee y bloquea la fila hasta el fin de la transacción (recálculo de costo).
	GetForUpdate(ctx context.Context, id string) (*entity.Medicine, error)
	// GetByNameKey busca por nombre normalizado (ver entity.NameKey).
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Medicine, error)
	Update(ctx context.Context, medicine *entity.Medicine) error
	UpdateCost(ctx context.Context, medicineID string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Medicine, error)
	Delete(ctx context.Context, id string) error
}

// ManufacturerRepository puerto de persistencia para laboratorios.
type ManufacturerRepository interface {
	Create(ctx context.Context, manufacturer *entity.Manufacturer) error
	GetByID(ctx context.Context, id string) (*entity.Manufacturer, error)
	GetByNameKey(ctx context.Context, nameKey string) (*entity.Manufacturer, error)
	GetByGSTIN(ctx context.Context, gstin string) (*entity.Manufacturer, error)
	Update(ctx context.Context, manufacturer *entity.Manufacturer) error
	List(ctx context.Context, limit, offset int) ([]*entity.Manufacturer, error)
	Delete(ctx context.Context, id string) error
}

// CatalogRepository puerto para tipos de empaque y unidades.
type CatalogRepository interface {
	CreatePackaging(ctx context.Context, p *entity.PackagingType) error
	ListPackaging(ctx context.Context) ([]*entity.PackagingType, error)
	DeletePackaging(ctx context.Context, id string) error
	CreateUnit(ctx context.Context, u *entity.UnitType) error
	ListUnits(ctx context.Context) ([]*entity.UnitType, error)
	DeleteUnit(ctx context.Context, id string) error
}

// PatientRepository puerto de persistencia para pacientes.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.Patient, error)
	Delete(ctx context.Context, id string) error
}
