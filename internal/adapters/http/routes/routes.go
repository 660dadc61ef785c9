package routes

import (
	"library-lending/internal/adapters/http/handlers"
	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/config"
	"library-lending/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies carries what the router hands to handlers
type Dependencies struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Loans    services.LoanCoordinator
	Gatherer prometheus.Gatherer
	Ping     func() error
	Logger   *zap.Logger
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, deps.Ping)
	authHandler := handlers.NewAuthHandler(deps.Auth, cfg, deps.Logger)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Logger)
	loanHandler := handlers.NewLoanHandler(deps.Loans, deps.Logger)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Tenant-scoped routes
	auth := middleware.AuthMiddleware(cfg)

	bookRoutes := apiV1.Group("/books", auth, middleware.NoCacheHeaders())
	setupBookRoutes(bookRoutes, catalogHandler)

	memberRoutes := apiV1.Group("/members", auth, middleware.NoCacheHeaders())
	setupMemberRoutes(memberRoutes, catalogHandler)

	loanRoutes := apiV1.Group("/loans", auth, middleware.NoCacheHeaders())
	setupLoanRoutes(loanRoutes, loanHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	limit := middleware.AuthRateLimiter(cfg.RateLimit.Auth)

	// Public routes
	router.Post("/register", limit, handler.Register)
	router.Post("/login", limit, handler.Login)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupBookRoutes configures book routes
func setupBookRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Post("/", handler.CreateBook)
	router.Get("/", handler.ListBooks)
	router.Get("/:id", handler.GetBook)
}

// setupMemberRoutes configures member routes
func setupMemberRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Post("/", handler.CreateMember)
	router.Get("/", handler.ListMembers)
	router.Get("/:id", handler.GetMember)
}

// setupLoanRoutes configures loan routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.CreateLoan)
	router.Get("/", handler.ListLoans)
	router.Get("/:id", handler.GetLoan)
	router.Patch("/:id/return", handler.ReturnLoan)
}
