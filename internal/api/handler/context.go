package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ctxTenantID extracts the tenant injected by the Tenant middleware (public
// routes) or the Auth middleware (tenant_id claim). Its absence means no
// middleware ran, which is a wiring bug surfaced as 401.
func ctxTenantID(c echo.Context) (uuid.UUID, error) {
	raw, _ := c.Get("tenant_id").(string)
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing tenant identity")
	}
	tenantID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant identity")
	}
	return tenantID, nil
}

// pathUUID parses a uuid path parameter, rejecting malformed values early.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
