package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/api/handlers"
	"github.com/internhub/backend/internal/scraper"
	"github.com/internhub/backend/internal/store"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Engine      *scraper.Engine
	Internships *store.InternshipStore
	Logger      *zap.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Health check routes (no prefix)
	app.Get("/health", handlers.HealthCheck(deps.DB, deps.Redis))
	app.Get("/ready", handlers.ReadinessCheck(deps.DB))
	app.Get("/", handlers.Root())

	// API routes
	api := app.Group("/api")

	// Internship catalog
	internships := api.Group("/internships")
	internshipsHandler := handlers.NewInternshipsHandler(deps.Internships, deps.Logger)
	internships.Get("/", internshipsHandler.List)
	internships.Get("/:id", internshipsHandler.Get)

	// Scraping control
	scraping := api.Group("/scraping")
	scrapeHandler := handlers.NewScrapeHandler(deps.Engine, deps.Logger)
	scraping.Post("/trigger", scrapeHandler.Trigger)
	scraping.Get("/stats", scrapeHandler.Stats)
}
