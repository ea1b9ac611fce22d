package http

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Locals keys para la sesión autenticada en Fiber.
const (
	LocalSession   = "session"
	LocalPrincipal = "principal"
)

// Authenticator valida un token y devuelve la sesión viva. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer Token JWT, carga la sesión y deja el Principal en c.Locals.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		session, err := authn.Authenticate(c.UserContext(), tokenString)
		if err != nil || session == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, expirado o sesión cerrada"})
		}
		c.Locals(LocalSession, session)
		c.Locals(LocalPrincipal, entity.PrincipalFromSession(session))
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. Debe ir después de AuthMiddleware.
//   - 401 MISSING_ROLE → la sesión no trae rol.
//   - 403 FORBIDDEN   → el rol no está en la lista.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "la sesión no tiene rol asignado"})
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequirePermission verifica la ruta contra el mapeo rol -> rutas tomado al iniciar sesión.
func RequirePermission(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if !p.HasPermission(path) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permiso para " + path})
		}
		return c.Next()
	}
}

func principal(c *fiber.Ctx) (entity.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(entity.Principal)
	return p, ok
}

// GetPrincipal devuelve la identidad autenticada (vacía si no pasó por AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) entity.Principal {
	p, _ := principal(c)
	return p
}

// GetUserID devuelve el UserID de la sesión.
func GetUserID(c *fiber.Ctx) string { return GetPrincipal(c).UserID }

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string { return GetPrincipal(c).Role }

// GetSessionID devuelve el id de la sesión (jti del token).
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	if s == nil {
		return ""
	}
	return s.ID
}
