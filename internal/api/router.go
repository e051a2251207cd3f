package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	_ "github.com/clinicore/console-api/docs"
	"github.com/clinicore/console-api/internal/api/handler"
	"github.com/clinicore/console-api/internal/api/middleware"
	"github.com/clinicore/console-api/internal/core/domain"
	"github.com/clinicore/console-api/internal/core/permission"
	"github.com/clinicore/console-api/internal/core/ports"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Sessions  ports.SessionService
	Evaluator *permission.Evaluator
	AuditRepo ports.AuditRepository
	AuditSink interface{ Enqueue(event domain.AuthEvent) }
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	AuthRPS   float64
	AuthBurst int
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))
	e.Use(middleware.ResolveSession(cfg.JWTSecret, cfg.Sessions))

	guard := middleware.NewGuard(cfg.Evaluator, cfg.AuditSink)

	sessionHandler := handler.NewSessionHandler(cfg.Sessions)
	authzHandler := handler.NewAuthorizationHandler(cfg.Evaluator)
	navHandler := handler.NewNavigationHandler(cfg.Evaluator)
	moduleHandler := handler.NewModuleHandler(cfg.Evaluator)
	auditHandler := handler.NewAuditHandler(cfg.AuditRepo)

	// --- Auth routes (public-only, rate limited) ---
	authRate := cfg.AuthRPS
	if authRate <= 0 {
		authRate = 5
	}
	authBurst := cfg.AuthBurst
	if authBurst <= 0 {
		authBurst = 10
	}
	limiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(authRate),
			Burst:     authBurst,
			ExpiresIn: 3 * time.Minute,
		}),
	})

	auth := e.Group("/auth", limiter)
	auth.POST("/login", sessionHandler.Login, guard.PublicOnly())
	auth.POST("/register", sessionHandler.Register, guard.PublicOnly())
	auth.POST("/logout", sessionHandler.Logout)

	// --- Authenticated console surface ---
	v1 := e.Group("/v1", guard.RequireSession())
	v1.GET("/session", sessionHandler.Me)
	v1.PATCH("/session/user", sessionHandler.UpdateUser)
	v1.GET("/authorization", authzHandler.Snapshot)
	v1.POST("/authorization/check", authzHandler.Check)
	v1.GET("/navigation", navHandler.Modules)
	v1.GET("/navigation/settings", navHandler.Settings)
	v1.GET("/modules/:id", moduleHandler.Show)

	// Reports on the authorization core itself, behind both a module gate
	// and a capability gate.
	v1.GET("/reports/access-denials", auditHandler.Denials,
		guard.RequireModule(domain.ModuleReports),
		guard.RequireCapability(domain.CapViewReports))

	// Full audit trail is for user administrators only.
	v1.GET("/audit/events", auditHandler.List,
		guard.RequireCapability(domain.CapManageUsers))

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
