package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
)

// UserHandler administración de usuarios y del mapeo rol -> rutas (solo admin).
type UserHandler struct {
	users *usecase.UserUseCase
	roles *usecase.RolePermissionService
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, roles *usecase.RolePermissionService) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, name, role, location_ids"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.users.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/users?limit=&offset=
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := pageParams(c)
	out, err := h.users.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Description  Rol, ubicaciones y permisos se aplican desde el siguiente inicio de sesión.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.users.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetRolePermissions GET /api/roles/:role/permissions
func (h *UserHandler) GetRolePermissions(c *fiber.Ctx) error {
	out, err := h.roles.Get(c.UserContext(), c.Params("role"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRolePermissions godoc
// @Summary      Reemplazar rutas permitidas de un rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        role  path  string  true  "admin | bodeguero | vendedor"
// @Param        body  body  dto.RolePermissionsRequest  true  "paths"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/roles/{role}/permissions [put]
func (h *UserHandler) SetRolePermissions(c *fiber.Ctx) error {
	var in dto.RolePermissionsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.roles.Set(c.UserContext(), c.Params("role"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
