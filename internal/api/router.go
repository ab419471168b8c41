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

	_ "github.com/ChhatbarPooja/crm-api/docs"
	"github.com/ChhatbarPooja/crm-api/internal/api/handler"
	"github.com/ChhatbarPooja/crm-api/internal/api/middleware"
	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/service"
	mongodb "github.com/ChhatbarPooja/crm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ChhatbarPooja/crm-api/internal/infrastructure/db/redis"
	"github.com/ChhatbarPooja/crm-api/internal/infrastructure/queue"
)

// Options carries the router's runtime configuration.
type Options struct {
	JWTSecret    string
	EventWorkers int
}

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the event dispatcher, which the caller must Start.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Binder = handler.NewBinder()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Repositories ---
	leadRepo := mongodb.NewLeadRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	unreadCache := redisdb.NewUnreadCache(rdb)

	// --- Services ---
	notificationService := service.NewNotificationService(notificationRepo, userRepo, leadRepo, unreadCache, log)
	dispatcher := queue.NewDispatcher(opts.EventWorkers, notificationService, log)
	leadService := service.NewLeadService(leadRepo, userRepo, dispatcher, log)
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(userRepo, opts.JWTSecret, 24*time.Hour)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	leadHandler := handler.NewLeadHandler(leadService)
	userHandler := handler.NewUserHandler(userService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Ops endpoints (no auth) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Auth routes (no auth) ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	auth := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Leads ---
	leads := v1.Group("/leads", auth)
	leads.GET("", leadHandler.List)
	leads.POST("", leadHandler.Create)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete, adminOnly)
	leads.PUT("/:id/status", leadHandler.TransitionStatus)
	leads.PUT("/:id/assign", leadHandler.Assign)

	// --- Users ---
	users := v1.Group("/users", auth)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/sales", userHandler.ListSales)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PUT("/:id/notification-preferences", userHandler.UpdatePreferences)

	// --- Notifications ---
	notifications := v1.Group("/notifications", auth)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread", notificationHandler.UnreadCount)
	// read-all before :id so it is not captured as an id.
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id", notificationHandler.MarkRead)

	return e, dispatcher
}
