package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.RolePermissionRepository = (*RolePermissionRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, name, role, location_ids, status, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.LocationIDs, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func locationIDsParam(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, locationIDsParam(user.LocationIDs),
		user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return writeError("insert user", err, domain.ErrEmailAlreadyExists)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail busca sin distinguir mayúsculas.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

// Update actualiza datos, rol, ubicaciones, estado y hash.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, role = $5, location_ids = $6,
			status = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, locationIDsParam(user.LocationIDs),
		user.Status, user.UpdatedAt,
	)
	if err != nil {
		return writeError("update user", err, domain.ErrEmailAlreadyExists)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios, más recientes primero.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RolePermissionRepo mapeo rol -> rutas en role_permissions.
type RolePermissionRepo struct {
	q Querier
}

// NewRolePermissionRepository construye el adaptador.
func NewRolePermissionRepository(q Querier) *RolePermissionRepo {
	return &RolePermissionRepo{q: q}
}

// GetPaths devuelve nil si el rol no tiene fila.
func (r *RolePermissionRepo) GetPaths(ctx context.Context, role string) ([]string, error) {
	var paths []string
	err := r.q.QueryRow(ctx, `SELECT paths FROM role_permissions WHERE role = $1`, role).Scan(&paths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role permissions: %w", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

// SetPaths reemplaza las rutas del rol.
func (r *RolePermissionRepo) SetPaths(ctx context.Context, role string, paths []string) error {
	query := `
		INSERT INTO role_permissions (role, paths, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (role) DO UPDATE SET paths = EXCLUDED.paths, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, role, locationIDsParam(paths)); err != nil {
		return fmt.Errorf("set role permissions: %w", err)
	}
	return nil
}
