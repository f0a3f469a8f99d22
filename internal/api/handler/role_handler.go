package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tenantkit/identity-service/internal/core/ports"
)

// RoleHandler handles tenant-scoped role administration.
type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type createRoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type updateRoleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// List returns all roles of the caller's tenant.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  roleResponse
// @Router       /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}

	roles, err := h.roleService.List(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	resp := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, toRoleResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single role by id.
//
// @Summary      Get role by id
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id (uuid)"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	roleID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	role, err := h.roleService.Get(c.Request().Context(), tenantID, roleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*role))
}

// Create adds a new role to the tenant.
//
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}

	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.roleService.Create(c.Request().Context(), ports.CreateRoleInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(*role))
}

// Update renames a role.
//
// @Summary      Rename role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Role id (uuid)"
// @Param        body  body      updateRoleRequest  true  "New name"
// @Success      200   {object}  roleResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	roleID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, err := h.roleService.Update(c.Request().Context(), ports.UpdateRoleInput{
		TenantID: tenantID,
		RoleID:   roleID,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*role))
}

// Delete removes a role and detaches it from all users.
//
// @Summary      Delete role
// @Tags         roles
// @Security     BearerAuth
// @Param        id  path  string  true  "Role id (uuid)"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	roleID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.roleService.Delete(c.Request().Context(), tenantID, roleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
