package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.RolePermissionRepository = (*RolePermissionRepo)(nil)
	_ repository.SessionStore             = (*SessionStore)(nil)
)

// UserRepo usuarios del sistema.
type UserRepo struct{ store *Store }

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepo { return &UserRepo{store: store} }

func cloneUser(u entity.User) *entity.User {
	u.LocationIDs = slices.Clone(u.LocationIDs)
	return &u
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.store.with(false, func(st *state) error {
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *cloneUser(*u)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(false, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = cloneUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.with(false, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = cloneUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.store.with(false, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		for id, other := range st.users {
			if id != u.ID && strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *cloneUser(*u)
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.store.with(false, func(st *state) error {
		for _, u := range st.users {
			out = append(out, cloneUser(u))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), err
}

// RolePermissionRepo mapeo rol -> rutas.
type RolePermissionRepo struct{ store *Store }

// NewRolePermissionRepository construye el repositorio.
func NewRolePermissionRepository(store *Store) *RolePermissionRepo {
	return &RolePermissionRepo{store: store}
}

func (r *RolePermissionRepo) GetPaths(_ context.Context, role string) ([]string, error) {
	var out []string
	err := r.store.with(false, func(st *state) error {
		if paths, ok := st.rolePaths[role]; ok {
			out = slices.Clone(paths)
		}
		return nil
	})
	return out, err
}

func (r *RolePermissionRepo) SetPaths(_ context.Context, role string, paths []string) error {
	return r.store.with(false, func(st *state) error {
		st.rolePaths[role] = slices.Clone(paths)
		return nil
	})
}

// SessionStore sesiones en memoria; se usa cuando no hay Redis configurado.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	store    *Store
}

// NewSessionStore construye el almacén de sesiones; el reloj se toma del Store.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{sessions: map[string]entity.Session{}, store: store}
}

// Save guarda la sesión y de paso descarta las vencidas, así las que nadie vuelve a leer no se acumulan.
func (s *SessionStore) Save(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.store.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	cp := *session
	cp.LocationIDs = slices.Clone(session.LocationIDs)
	cp.Permissions = slices.Clone(session.Permissions)
	s.sessions[session.ID] = cp
	return nil
}

// Get devuelve la sesión vigente; una vencida se elimina al leerla.
func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.store.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	return &sess, nil
}

// Len cantidad de sesiones guardadas, vencidas incluidas.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
