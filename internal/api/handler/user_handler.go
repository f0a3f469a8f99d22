package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tenantkit/identity-service/internal/api/metrics"
	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

// UserHandler handles registration and user administration.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	Username string   `json:"username" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8"`
	RoleIDs  []string `json:"role_ids" validate:"omitempty,dive,uuid"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type assignRoleRequest struct {
	RoleID string `json:"role_id" validate:"required,uuid"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header    string           false  "Tenant id (uuid); defaults to the configured tenant"
// @Param        body         body      registerRequest  true   "User registration details"
// @Success      201          {object}  userResponse
// @Failure      400          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}

	roleIDs := make([]uuid.UUID, 0, len(req.RoleIDs))
	for _, raw := range req.RoleIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role id")
		}
		roleIDs = append(roleIDs, id)
	}

	user, err := h.userService.Register(c.Request().Context(), ports.RegisterUserInput{
		TenantID: tenantID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(*user))
}

// List returns all users of the caller's tenant.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single user by id.
//
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id (uuid)"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), tenantID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// Update applies a partial profile update; a provided password is re-hashed.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id (uuid)"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), ports.UpdateUserInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id (uuid)"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), tenantID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignRole attaches a role to a user.
//
// @Summary      Assign role to user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id (uuid)"
// @Param        body  body      assignRoleRequest  true  "Role to assign"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id}/roles [post]
func (h *UserHandler) AssignRole(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role id")
	}

	user, err := h.userService.AssignRole(c.Request().Context(), tenantID, userID, roleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}

// RemoveRole detaches a role from a user.
//
// @Summary      Remove role from user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "User id (uuid)"
// @Param        roleId  path      string  true  "Role id (uuid)"
// @Success      200     {object}  userResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/users/{id}/roles/{roleId} [delete]
func (h *UserHandler) RemoveRole(c echo.Context) error {
	tenantID, err := ctxTenantID(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	roleID, err := pathUUID(c, "roleId")
	if err != nil {
		return err
	}

	user, err := h.userService.RemoveRole(c.Request().Context(), tenantID, userID, roleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*user))
}
