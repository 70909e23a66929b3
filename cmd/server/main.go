package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lendinghub/internal/adapters/http/middleware"
	"lendinghub/internal/adapters/http/routes"
	"lendinghub/internal/adapters/messaging"
	"lendinghub/internal/adapters/persistence/memory"
	"lendinghub/internal/adapters/persistence/repositories"
	"lendinghub/internal/config"
	"lendinghub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	_ "lendinghub/docs" // Swagger docs
)

// @title LendingHub API
// @version 1.0
// @description Item lending API: catalog, users, borrow and return with late fees

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	config.SetupLogger(cfg)

	// Open store
	repos, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open store")
	}
	defer config.CloseDatabase()

	// Seed demo data (dev/testing only)
	if cfg.SeedDemo {
		if err := config.NewSeeder(repos).Run(context.Background()); err != nil {
			log.Warn().Err(err).Msg("⚠️ Failed to seed demo data")
		}
	}

	// Event publisher
	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	// Start overdue sweep
	if cfg.Overdue.Enabled {
		overdueService := services.NewOverdueService(repos.Loans, cfg.LendingPolicy(), publisher, cfg.Overdue.Schedule)
		if err := overdueService.Start(); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Overdue.Schedule).Msg("❌ Invalid OVERDUE_CRON")
		}
		defer overdueService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LendingHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, repos, publisher, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("🚀 Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Failed to start server")
	}
}

// openStore connects the configured store and returns its repositories
func openStore(cfg *config.Config) (*repositories.Repositories, error) {
	if cfg.UsesMemoryStore() {
		log.Warn().Msg("⚠️ Using in-memory store, data is lost on restart")
		return memory.NewRepositories(), nil
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// Auto migrate (creates tables if not exist)
	if err := config.MigrateDatabase(db); err != nil {
		return nil, err
	}

	return repositories.New(db), nil
}

// newPublisher returns the RabbitMQ publisher, or a log-only publisher when
// RABBITMQ_URL is empty or the broker is unreachable
func newPublisher(cfg *config.Config) (services.EventPublisher, func()) {
	if cfg.Rabbit.URL == "" {
		log.Info().Msg("📣 RABBITMQ_URL not set, lending events are logged only")
		return messaging.NewLogPublisher(), func() {}
	}

	rabbit, err := messaging.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ RabbitMQ unavailable, lending events are logged only")
		return messaging.NewLogPublisher(), func() {}
	}
	return rabbit, rabbit.Close
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("❌ Error during shutdown")
	}
	log.Info().Msg("✅ Server stopped gracefully")
}
