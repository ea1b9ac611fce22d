package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}

// RolePermissionRepository persiste el mapeo rol -> rutas permitidas.
type RolePermissionRepository interface {
	// GetPaths devuelve nil si el rol no tiene mapeo guardado.
	GetPaths(ctx context.Context, role string) ([]string, error)
	SetPaths(ctx context.Context, role string, paths []string) error
}

// SessionStore persistencia explícita de sesiones (reemplaza el estado global del cliente).
type SessionStore interface {
	Save(ctx context.Context, session *entity.Session) error
	// Get devuelve nil si la sesión no existe o expiró.
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
