package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// permissionResolver lo implementa *usecase.RolePermissionService.
type permissionResolver interface {
	Paths(ctx context.Context, role string) ([]string, error)
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y validación de sesión.
// La sesión vive en el SessionStore; el JWT solo la referencia (jti) y expira a la vez.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionStore
	perms    permissionResolver
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessions repository.SessionStore,
	perms permissionResolver,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		sessions: sessions,
		perms:    perms,
		jwtCfg:   jwtCfg,
		log:      log.With().Str("component", "auth").Logger(),
		now:      time.Now,
	}
}

// RegisterUser crea un vendedor sin ubicaciones asignadas; un admin le asigna tiendas después.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleVendedor,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return usecase.EntityToUserResponse(user), nil
}

// Login verifica email/password, abre una sesión con los permisos del rol y retorna el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Warn().Str("user_id", user.ID).Msg("login con password incorrecto")
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	paths, err := uc.perms.Paths(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Role:        user.Role,
		LocationIDs: user.LocationIDs,
		Permissions: paths,
		ExpiresAt:   uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, session.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("sesión iniciada")
	return &dto.LoginResponse{
		Token:       token,
		ExpiresAt:   session.ExpiresAt,
		Permissions: paths,
		User:        *usecase.EntityToUserResponse(user),
	}, nil
}

// Logout cierra la sesión; el JWT deja de ser aceptado aunque no haya expirado.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrUnauthorized
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// Authenticate valida el token y carga la sesión asociada.
// Devuelve ErrUnauthorized si el token es inválido o la sesión ya no existe.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	userID, sessionID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil || sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
