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

// CatalogUseCase maestros auxiliares: tipos de empaque y unidades de medida.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// CreatePackaging crea un tipo de empaque (nombre único).
func (uc *CatalogUseCase) CreatePackaging(ctx context.Context, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.PackagingType{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.CreatePackaging(ctx, p); err != nil {
		return nil, err
	}
	return &dto.CatalogItemResponse{ID: p.ID, Name: p.Name, Description: p.Description, CreatedAt: p.CreatedAt}, nil
}

// ListPackaging lista los tipos de empaque.
func (uc *CatalogUseCase) ListPackaging(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	list, err := uc.repo.ListPackaging(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.CatalogItemResponse{ID: p.ID, Name: p.Name, Description: p.Description, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

// DeletePackaging elimina un tipo de empaque.
func (uc *CatalogUseCase) DeletePackaging(ctx context.Context, id string) error {
	return uc.repo.DeletePackaging(ctx, id)
}

// CreateUnit crea una unidad de medida (nombre único).
func (uc *CatalogUseCase) CreateUnit(ctx context.Context, in dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	u := &entity.UnitType{
		ID:           uuid.New().String(),
		Name:         name,
		Abbreviation: in.Abbreviation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return &dto.CatalogItemResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, CreatedAt: u.CreatedAt}, nil
}

// ListUnits lista las unidades de medida.
func (uc *CatalogUseCase) ListUnits(ctx context.Context) ([]dto.CatalogItemResponse, error) {
	list, err := uc.repo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.CatalogItemResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, CreatedAt: u.CreatedAt})
	}
	return out, nil
}

// DeleteUnit elimina una unidad de medida.
func (uc *CatalogUseCase) DeleteUnit(ctx context.Context, id string) error {
	return uc.repo.DeleteUnit(ctx, id)
}
