package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fleetops/fleet-console/internal/api/handler"
	"github.com/fleetops/fleet-console/internal/api/metrics"
	"github.com/fleetops/fleet-console/internal/core/domain"
	"github.com/fleetops/fleet-console/internal/core/service"
	"github.com/fleetops/fleet-console/internal/infrastructure/config"
	"github.com/fleetops/fleet-console/internal/infrastructure/db/postgres"
	redisdb "github.com/fleetops/fleet-console/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, fleet *service.FleetService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fleet_console"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log)
	userService := service.NewUserService(userRepo, log)
	guard := redisdb.NewSubmissionGuard(rdb)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, guard, log)
	fleetHandler := handler.NewFleetHandler(fleet)

	// --- Auth routes ---
	e.POST("/api/login", authHandler.Login)
	e.GET("/api/verify-token", authHandler.Verify)

	// --- User directory ---
	// No token check here on purpose: the source system gates the admin page
	// in the browser only. Known security gap, kept faithful.
	e.GET("/api/users", userHandler.List)
	e.POST("/api/users", userHandler.Create)
	e.PUT("/api/users/:id", userHandler.Update)
	e.DELETE("/api/users/:id", userHandler.Delete)

	// --- Fleet feed ---
	e.GET("/api/vehicles", fleetHandler.Vehicles)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())
	for _, status := range []domain.VehicleStatus{domain.VehicleActive, domain.VehicleIdle} {
		metrics.RegisterFleetGauge(string(status), func() int {
			return fleet.CountByStatus()[status]
		})
	}

	return e
}
