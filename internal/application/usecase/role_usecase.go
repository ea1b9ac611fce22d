package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// RolePermissionService resuelve qué rutas puede usar cada rol.
// Si el rol no tiene mapeo guardado, usa entity.DefaultRolePermissions.
type RolePermissionService struct {
	repo repository.RolePermissionRepository
}

// NewRolePermissionService construye el servicio.
func NewRolePermissionService(repo repository.RolePermissionRepository) *RolePermissionService {
	return &RolePermissionService{repo: repo}
}

// Paths devuelve las rutas permitidas del rol.
func (s *RolePermissionService) Paths(ctx context.Context, role string) ([]string, error) {
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
	}
	paths, err := s.repo.GetPaths(ctx, role)
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = entity.DefaultRolePermissions()[role]
	}
	return paths, nil
}

// Get devuelve el mapeo del rol para la API de administración.
func (s *RolePermissionService) Get(ctx context.Context, role string) (*dto.RolePermissionsResponse, error) {
	paths, err := s.Paths(ctx, role)
	if err != nil {
		return nil, err
	}
	return &dto.RolePermissionsResponse{Role: role, Paths: paths}, nil
}

// Set reemplaza las rutas del rol. El admin conserva siempre "*" para no quedar bloqueado.
// Las sesiones abiertas mantienen sus permisos hasta el siguiente login.
func (s *RolePermissionService) Set(ctx context.Context, role string, in dto.RolePermissionsRequest) (*dto.RolePermissionsResponse, error) {
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
	}
	paths := slices.Clone(in.Paths)
	slices.Sort(paths)
	paths = slices.Compact(paths)
	if role == entity.RoleAdmin && !slices.Contains(paths, entity.PermissionAll) {
		return nil, fmt.Errorf("admin debe conservar %q: %w", entity.PermissionAll, domain.ErrInvalidInput)
	}
	if err := s.repo.SetPaths(ctx, role, paths); err != nil {
		return nil, err
	}
	return &dto.RolePermissionsResponse{Role: role, Paths: paths}, nil
}
