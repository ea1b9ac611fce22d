package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// PatientUseCase fichas de pacientes. El teléfono se valida y se guarda en formato E.164.
type PatientUseCase struct {
	repo   repository.PatientRepository
	region string // región por defecto para números sin prefijo internacional, ej. "IN", "CO"
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository, phoneRegion string) *PatientUseCase {
	return &PatientUseCase{repo: repo, region: strings.ToUpper(phoneRegion)}
}

// NormalizePhone valida el número para la región y lo devuelve en E.164.
func NormalizePhone(phone, region string) (string, error) {
	p, err := libphonenumber.Parse(strings.TrimSpace(phone), region)
	if err != nil {
		return "", fmt.Errorf("teléfono %q: %w", phone, domain.ErrInvalidInput)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("teléfono %q no es válido: %w", phone, domain.ErrInvalidInput)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

// Create registra un paciente.
func (uc *PatientUseCase) Create(ctx context.Context, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Age < 0 {
		return nil, domain.ErrInvalidInput
	}
	phone, err := NormalizePhone(in.Phone, uc.region)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Patient{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Age:       in.Age,
		Gender:    in.Gender,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// GetByID obtiene un paciente.
func (uc *PatientUseCase) GetByID(ctx context.Context, id string) (*dto.PatientResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPatientResponse(p), nil
}

// Update actualiza un paciente.
func (uc *PatientUseCase) Update(ctx context.Context, id string, in dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		if p.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Phone != nil {
		phone, err := NormalizePhone(*in.Phone, uc.region)
		if err != nil {
			return nil, err
		}
		p.Phone = phone
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// Search busca pacientes por nombre o teléfono.
func (uc *PatientUseCase) Search(ctx context.Context, query string, limit, offset int) (*dto.PatientListResponse, error) {
	list, err := uc.repo.Search(ctx, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PatientResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPatientResponse(p))
	}
	return &dto.PatientListResponse{Items: items, Page: dto.NewPage(limit, offset, len(items))}, nil
}

// Delete elimina un paciente; sus ventas conservan la referencia.
func (uc *PatientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Age:       p.Age,
		Gender:    p.Gender,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
