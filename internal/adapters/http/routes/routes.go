package routes

import (
	"lendinghub/internal/adapters/http/handlers"
	"lendinghub/internal/adapters/http/middleware"
	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/config"
	"lendinghub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, repos *repositories.Repositories, publisher services.EventPublisher, cfg *config.Config) {
	// Initialize services
	lendingService := services.NewLendingService(repos, cfg.LendingPolicy(), publisher)
	userService := services.NewUserService(repos)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	itemHandler := handlers.NewItemHandler(lendingService)
	userHandler := handlers.NewUserHandler(userService)

	// Root & health
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, itemHandler, userHandler)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	itemHandler *handlers.ItemHandler,
	userHandler *handlers.UserHandler,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Lending state changes on every call, never cache
	itemRoutes := router.Group("/items", middleware.NoCacheHeaders())
	setupItemRoutes(itemRoutes, itemHandler)

	userRoutes := router.Group("/users", middleware.NoCacheHeaders())
	setupUserRoutes(userRoutes, userHandler)
}

// setupItemRoutes configures catalog and lending routes
func setupItemRoutes(router fiber.Router, handler *handlers.ItemHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)

	// Must be registered before /:id
	router.Get("/search", handler.Search)

	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)

	// Lending
	router.Post("/:id/borrow", middleware.LendingRateLimiter(), handler.Borrow)
	router.Post("/:id/return", middleware.LendingRateLimiter(), handler.Return)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Post("/", handler.Register)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Get("/:id/loans", handler.GetLoans)
}
