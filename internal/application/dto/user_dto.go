package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Role        string   `json:"role" validate:"required,oneof=admin bodeguero vendedor"`
	LocationIDs []string `json:"location_ids" validate:"omitempty,dive,required"`
}

// UpdateUserRequest entrada para que un admin modifique rol, ubicaciones o estado.
type UpdateUserRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Role        *string  `json:"role" validate:"omitempty,oneof=admin bodeguero vendedor"`
	LocationIDs []string `json:"location_ids" validate:"omitempty,dive,required"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	Password    *string  `json:"password" validate:"omitempty,min=8"`
}

// RegisterRequest entrada para registro público: siempre crea un vendedor sin ubicaciones.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	LocationIDs []string  `json:"location_ids"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y permisos de la sesión.
type LoginResponse struct {
	Token       string       `json:"token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Permissions []string     `json:"permissions"`
	User        UserResponse `json:"user"`
}

// RolePermissionsRequest body para PUT /api/roles/:role/permissions.
type RolePermissionsRequest struct {
	Paths []string `json:"paths" validate:"required,dive,required,startswith=/|eq=*"`
}

// RolePermissionsResponse rutas permitidas de un rol.
type RolePermissionsResponse struct {
	Role  string   `json:"role"`
	Paths []string `json:"paths"`
}

// SessionResponse identidad de la sesión en curso.
type SessionResponse struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	LocationIDs []string `json:"location_ids"`
	Permissions []string `json:"permissions"`
}
