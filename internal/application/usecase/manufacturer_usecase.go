package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ManufacturerUseCase CRUD de laboratorios. Nombre y GSTIN (si no está vacío) son únicos.
type ManufacturerUseCase struct {
	repo repository.ManufacturerRepository
}

// NewManufacturerUseCase construye el caso de uso.
func NewManufacturerUseCase(repo repository.ManufacturerRepository) *ManufacturerUseCase {
	return &ManufacturerUseCase{repo: repo}
}

// checkUnique verifica nombre normalizado y GSTIN contra otros laboratorios.
func (uc *ManufacturerUseCase) checkUnique(ctx context.Context, selfID, name, gstin string) error {
	other, err := uc.repo.GetByNameKey(ctx, entity.NameKey(name))
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.ErrDuplicate
	}
	if gstin == "" {
		return nil
	}
	other, err = uc.repo.GetByGSTIN(ctx, gstin)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

// Create crea un laboratorio.
func (uc *ManufacturerUseCase) Create(ctx context.Context, in dto.CreateManufacturerRequest) (*dto.ManufacturerResponse, error) {
	name := strings.TrimSpace(in.Name)
	gstin := strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkUnique(ctx, "", name, gstin); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Manufacturer{
		ID:            uuid.New().String(),
		Name:          name,
		GSTIN:         gstin,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// GetByID obtiene un laboratorio.
func (uc *ManufacturerUseCase) GetByID(ctx context.Context, id string) (*dto.ManufacturerResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toManufacturerResponse(m), nil
}

// Update actualiza un laboratorio.
func (uc *ManufacturerUseCase) Update(ctx context.Context, id string, in dto.UpdateManufacturerRequest) (*dto.ManufacturerResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.GSTIN != nil {
		m.GSTIN = strings.ToUpper(strings.TrimSpace(*in.GSTIN))
	}
	if in.ContactPerson != nil {
		m.ContactPerson = *in.ContactPerson
	}
	if in.Phone != nil {
		m.Phone = *in.Phone
	}
	if in.Email != nil {
		m.Email = *in.Email
	}
	if in.Address != nil {
		m.Address = *in.Address
	}
	if m.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkUnique(ctx, m.ID, m.Name, m.GSTIN); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// List lista laboratorios con paginación.
func (uc *ManufacturerUseCase) List(ctx context.Context, limit, offset int) (*dto.ManufacturerListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ManufacturerResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toManufacturerResponse(m))
	}
	return &dto.ManufacturerListResponse{Items: items, Page: dto.NewPage(limit, offset, len(items))}, nil
}

// Delete elimina un laboratorio.
func (uc *ManufacturerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toManufacturerResponse(m *entity.Manufacturer) *dto.ManufacturerResponse {
	return &dto.ManufacturerResponse{
		ID:            m.ID,
		Name:          m.Name,
		GSTIN:         m.GSTIN,
		ContactPerson: m.ContactPerson,
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
