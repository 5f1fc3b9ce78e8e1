package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/friendconnect/auth-service/docs"
	"github.com/friendconnect/auth-service/internal/api/handler"
	"github.com/friendconnect/auth-service/internal/api/middleware"
	"github.com/friendconnect/auth-service/internal/core/ports"
	"github.com/friendconnect/auth-service/internal/core/service"
	mongodb "github.com/friendconnect/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/friendconnect/auth-service/internal/infrastructure/db/redis"
	"github.com/friendconnect/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder is constructed by the caller because its worker pool has
// a lifecycle of its own.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewJWTTokenService(cfg.JWTSecret)
	throttle := redisdb.NewLoginThrottle(rdb)
	authService := service.NewAuthService(users, hasher, tokens, cfg.TokenTTL, log).
		WithThrottle(throttle).
		WithAudit(audit)

	cookie := handler.CookieConfig{
		Name:   cfg.CookieName,
		TTL:    cfg.TokenTTL,
		Secure: cfg.CookieSecure,
	}
	authHandler := handler.NewAuthHandler(authService, tokens, cookie)
	profileHandler := handler.NewProfileHandler()

	// --- Public routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "FriendConnect auth service"})
	})
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.POST("/register", authHandler.Register)

	// --- Protected routes: one guard contract, two presentations ---
	apiGuard := middleware.Session(tokens, users, cfg.CookieName, middleware.RejectMode)
	webGuard := middleware.Session(tokens, users, cfg.CookieName, middleware.RedirectMode)

	e.GET("/me", profileHandler.Me, apiGuard)
	e.GET("/profile", profileHandler.Me, webGuard)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
