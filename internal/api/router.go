package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tenantkit/identity-service/internal/api/handler"
	"github.com/tenantkit/identity-service/internal/api/middleware"
	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/service"
	mongodb "github.com/tenantkit/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/tenantkit/identity-service/internal/infrastructure/db/redis"
	"github.com/tenantkit/identity-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client, dispatcher service.EventDispatcher, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	hasher := service.NewPasswordHasher()

	tokens, err := service.NewTokenService(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpiresInHours)*time.Hour,
	)
	if err != nil {
		return nil, err
	}

	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window)

	authService := service.NewAuthService(userRepo, roleRepo, hasher, tokens, throttle, log)
	userService := service.NewUserService(userRepo, roleRepo, hasher, dispatcher, log)
	roleService := service.NewRoleService(roleRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)

	authMW := middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	adminMW := middleware.RBAC(domain.RoleAdmin)
	tenantMW := middleware.Tenant(cfg.DefaultTenant())

	// --- Public routes (tenant selected via X-Tenant-ID) ---
	e.POST("/api/auth/login", authHandler.Login, tenantMW)
	e.POST("/api/users", userHandler.Register, tenantMW)

	// --- Admin routes (tenant taken from the token claims) ---
	users := e.Group("/api/users", authMW, adminMW)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/roles", userHandler.AssignRole)
	users.DELETE("/:id/roles/:roleId", userHandler.RemoveRole)

	roles := e.Group("/api/roles", authMW, adminMW)
	roles.GET("", roleHandler.List)
	roles.GET("/:id", roleHandler.Get)
	roles.POST("", roleHandler.Create)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}
