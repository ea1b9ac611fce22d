package usecase

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Tarifas GST admitidas, como fracción.
var validTaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.05"),
	decimal.RequireFromString("0.12"),
	decimal.RequireFromString("0.18"),
	decimal.RequireFromString("0.28"),
}

func isValidTaxRate(rate decimal.Decimal) bool {
	for _, r := range validTaxRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

// MedicineUseCase casos de uso CRUD para medicamentos. Cost y stock se manejan vía compras y movimientos.
type MedicineUseCase struct {
	repo             repository.MedicineRepository
	manufacturerRepo repository.ManufacturerRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository, manufacturerRepo repository.ManufacturerRepository) *MedicineUseCase {
	return &MedicineUseCase{repo: repo, manufacturerRepo: manufacturerRepo}
}

// Create crea un nuevo medicamento. Cost inicia en 0; el nombre es único sin distinguir mayúsculas ni tildes.
func (uc *MedicineUseCase) Create(ctx context.Context, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.IsNegative() || !isValidTaxRate(in.TaxRate) {
		return nil, domain.ErrInvalidInput
	}
	if existing, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if existing, err := uc.repo.GetByNameKey(ctx, entity.NameKey(name)); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.requireManufacturer(ctx, in.ManufacturerID); err != nil {
		return nil, err
	}

	now := time.Now()
	medicine := &entity.Medicine{
		ID:              in.ID,
		Name:            name,
		GenericName:     in.GenericName,
		ManufacturerID:  in.ManufacturerID,
		PackagingID:     in.PackagingID,
		UnitID:          in.UnitID,
		HSNCode:         in.HSNCode,
		Price:           in.Price,
		Cost:            decimal.Zero,
		TaxRate:         in.TaxRate,
		MinStock:        maps.Clone(in.MinStock),
		DefaultMinStock: in.DefaultMinStock,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// GetByID obtiene un medicamento por ID.
func (uc *MedicineUseCase) GetByID(ctx context.Context, id string) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}
	return toMedicineResponse(medicine), nil
}

// Update actualiza un medicamento. No permite modificar Cost (se calcula con las compras).
// MinStock, si viene, se fusiona con los umbrales existentes.
func (uc *MedicineUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		other, err := uc.repo.GetByNameKey(ctx, entity.NameKey(name))
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != medicine.ID {
			return nil, domain.ErrDuplicate
		}
		medicine.Name = name
	}
	if in.GenericName != nil {
		medicine.GenericName = *in.GenericName
	}
	if in.ManufacturerID != nil {
		if err := uc.requireManufacturer(ctx, *in.ManufacturerID); err != nil {
			return nil, err
		}
		medicine.ManufacturerID = *in.ManufacturerID
	}
	if in.PackagingID != nil {
		medicine.PackagingID = *in.PackagingID
	}
	if in.UnitID != nil {
		medicine.UnitID = *in.UnitID
	}
	if in.HSNCode != nil {
		medicine.HSNCode = *in.HSNCode
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		medicine.Price = *in.Price
	}
	if in.TaxRate != nil {
		if !isValidTaxRate(*in.TaxRate) {
			return nil, domain.ErrInvalidInput
		}
		medicine.TaxRate = *in.TaxRate
	}
	if len(in.MinStock) > 0 {
		if medicine.MinStock == nil {
			medicine.MinStock = map[string]int64{}
		}
		maps.Copy(medicine.MinStock, in.MinStock)
	}
	if in.DefaultMinStock != nil {
		medicine.DefaultMinStock = *in.DefaultMinStock
	}
	medicine.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}
	return toMedicineResponse(medicine), nil
}

// List lista medicamentos con paginación.
func (uc *MedicineUseCase) List(ctx context.Context, limit, offset int) (*dto.MedicineListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMedicineResponse(m))
	}
	return &dto.MedicineListResponse{
		Items: items,
		Page:  dto.NewPage(limit, offset, len(items)),
	}, nil
}

// Delete elimina un medicamento. El stock y los registros históricos se conservan.
func (uc *MedicineUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *MedicineUseCase) requireManufacturer(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	m, err := uc.manufacturerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func toMedicineResponse(m *entity.Medicine) *dto.MedicineResponse {
	if m == nil {
		return nil
	}
	minStock := m.MinStock
	if minStock == nil {
		minStock = map[string]int64{}
	}
	return &dto.MedicineResponse{
		ID:              m.ID,
		Name:            m.Name,
		GenericName:     m.GenericName,
		ManufacturerID:  m.ManufacturerID,
		PackagingID:     m.PackagingID,
		UnitID:          m.UnitID,
		HSNCode:         m.HSNCode,
		Price:           m.Price,
		Cost:            m.Cost,
		TaxRate:         m.TaxRate,
		MinStock:        minStock,
		DefaultMinStock: m.DefaultMinStock,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
