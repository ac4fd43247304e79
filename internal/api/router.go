package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/servicehub/marketplace/docs"
	"github.com/servicehub/marketplace/internal/api/handler"
	"github.com/servicehub/marketplace/internal/api/middleware"
	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/internal/infrastructure/http/handlers"
)

const bodyLimit = "1M"

// Deps is everything the router wires into handlers and middleware.
type Deps struct {
	Logger      zerolog.Logger
	CORSOrigins []string

	Tokens  middleware.TokenVerifier
	Revoker ports.TokenRevoker // nil disables revocation checks

	Auth          ports.AuthService
	Catalog       ports.CatalogService
	Categories    ports.CategoryService
	Reviews       ports.ReviewService
	Users         ports.UserService
	Applications  ports.ApplicationService
	Notifications ports.NotificationService
	Reports       ports.ReportService
	Stream        handler.StreamServer

	// Checks are probed by /health/ready.
	Checks []handlers.Check

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ContextLogger(d.Logger))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  origins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{handler.HeaderTotalCount, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "marketplace",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	var authOpts []middleware.AuthOption
	if d.Revoker != nil {
		authOpts = append(authOpts, middleware.WithRevoker(d.Revoker))
	}
	requireAuth := middleware.Auth(d.Tokens, authOpts...)
	streamAuth := middleware.Auth(d.Tokens, append(authOpts, middleware.WithQueryToken("token"))...)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth)
	serviceHandler := handler.NewServiceHandler(d.Catalog)
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	reviewHandler := handler.NewReviewHandler(d.Reviews)
	userHandler := handler.NewUserHandler(d.Users)
	applicationHandler := handler.NewApplicationHandler(d.Applications)
	notificationHandler := handler.NewNotificationHandler(d.Notifications, d.Stream)
	reportHandler := handler.NewReportHandler(d.Reports)

	// --- Operational routes ---
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service Marketplace API is running")
	})
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Services ---
	services := api.Group("/services")
	services.GET("", serviceHandler.List)
	services.GET("/:id", serviceHandler.Get)
	services.POST("", serviceHandler.Create, requireAuth)
	services.PUT("/:id", serviceHandler.Update, requireAuth)
	services.DELETE("/:id", serviceHandler.Delete, requireAuth)
	services.POST("/:id/applications", applicationHandler.Apply, requireAuth)
	services.GET("/:id/applications", applicationHandler.ListForService, requireAuth)

	// --- Categories ---
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create, requireAuth, adminOnly)
	categories.DELETE("/:id", categoryHandler.Delete, requireAuth, adminOnly)

	// --- Reviews ---
	reviews := api.Group("/reviews")
	reviews.GET("/service/:serviceId", reviewHandler.ListForService)
	reviews.POST("", reviewHandler.Create, requireAuth)
	reviews.DELETE("/:id", reviewHandler.Delete, requireAuth)

	// --- Users ---
	users := api.Group("/users")
	users.GET("/:id/rating", reviewHandler.Rating)
	users.GET("", userHandler.List, requireAuth, adminOnly)
	users.GET("/:id", userHandler.Get, requireAuth)
	users.PUT("/:id", userHandler.Update, requireAuth, adminOnly)
	users.DELETE("/:id", userHandler.Delete, requireAuth, adminOnly)

	// --- Applications ---
	applications := api.Group("/applications", requireAuth)
	applications.GET("/mine", applicationHandler.ListMine)
	applications.PUT("/:id/status", applicationHandler.Decide)

	// --- Notifications ---
	notifications := api.Group("/notifications")
	notifications.GET("/stream", notificationHandler.Stream, streamAuth)
	notifications.GET("", notificationHandler.List, requireAuth)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead, requireAuth)
	notifications.PUT("/:id/read", notificationHandler.MarkRead, requireAuth)

	// --- Reports ---
	reports := api.Group("/reports", requireAuth)
	reports.POST("", reportHandler.Create)
	reports.GET("", reportHandler.List, adminOnly)
	reports.PUT("/:id/status", reportHandler.UpdateStatus, adminOnly)

	return e
}
