package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin     = "admin"     // acceso total, administración de maestros y usuarios
	RoleBodeguero = "bodeguero" // bodega: compras, traslados, devoluciones, bajas
	RoleVendedor  = "vendedor"  // tienda: ventas y pacientes
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string   // admin, bodeguero, vendedor
	LocationIDs  []string // ubicaciones donde opera; vacío para admin = todas
	Status       string   // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si el rol es uno de los conocidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleBodeguero || role == RoleVendedor
}

// PermissionAll comodín que concede todas las rutas.
const PermissionAll = "*"

// RolePermissions rutas permitidas para un rol (lo que antes vivía en el almacenamiento local del cliente).
type RolePermissions struct {
	Role  string
	Paths []string
}

// DefaultRolePermissions mapeo inicial rol -> rutas.
func DefaultRolePermissions() map[string][]string {
	return map[string][]string{
		RoleAdmin: {PermissionAll},
		RoleBodeguero: {
			"/inventory", "/purchases", "/transfers", "/returns", "/damaged",
			"/alerts", "/reports", "/masters",
		},
		RoleVendedor: {"/inventory", "/sales", "/patients", "/alerts"},
	}
}

// Session sesión autenticada persistida en el SessionStore.
type Session struct {
	ID          string
	UserID      string
	Role        string
	LocationIDs []string
	Permissions []string
	ExpiresAt   time.Time
}

// Principal identidad explícita que los handlers pasan a los casos de uso.
type Principal struct {
	UserID      string
	Role        string
	LocationIDs []string
	Permissions []string
}

// PrincipalFromSession construye el principal de una sesión.
func PrincipalFromSession(s *Session) Principal {
	return Principal{
		UserID:      s.UserID,
		Role:        s.Role,
		LocationIDs: s.LocationIDs,
		Permissions: s.Permissions,
	}
}

// IsAdmin indica si el principal es administrador.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccessLocation admin ve todo; el resto solo sus ubicaciones asignadas.
func (p Principal) CanAccessLocation(locationID string) bool {
	if p.IsAdmin() {
		return true
	}
	return slices.Contains(p.LocationIDs, locationID)
}

// HasPermission verifica la ruta contra el mapeo rol -> rutas de la sesión.
func (p Principal) HasPermission(path string) bool {
	return slices.Contains(p.Permissions, PermissionAll) || slices.Contains(p.Permissions, path)
}
