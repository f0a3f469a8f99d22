package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHeader is the header unauthenticated callers use to select a tenant.
const TenantHeader = "X-Tenant-ID"

// Tenant resolves the tenant for public routes (login, registration) from
// the X-Tenant-ID header, falling back to the configured default tenant when
// the header is absent. A malformed header is rejected.
func Tenant(defaultTenantID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := defaultTenantID
			if raw := c.Request().Header.Get(TenantHeader); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid tenant id")
				}
				tenantID = parsed
			}
			c.Set("tenant_id", tenantID.String())
			return next(c)
		}
	}
}
