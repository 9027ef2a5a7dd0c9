package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/scraper"
)

// ScrapeHandler exposes manual scrape triggering and run statistics.
type ScrapeHandler struct {
	engine *scraper.Engine
	logger *zap.Logger
}

// NewScrapeHandler creates a new scrape handler
func NewScrapeHandler(engine *scraper.Engine, logger *zap.Logger) *ScrapeHandler {
	return &ScrapeHandler{engine: engine, logger: logger}
}

// Trigger starts a scrape run in the background. A run already in
// progress is reported as a conflict; the engine would coalesce the
// trigger anyway, but the caller deserves to know nothing new started.
func (h *ScrapeHandler) Trigger(c *fiber.Ctx) error {
	if h.engine.Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "already_running",
			"message": "A scrape run is already in progress",
		})
	}

	// Detached from the request context: the run outlives the response.
	go func() {
		if err := h.engine.ManualScrape(context.Background()); err != nil {
			h.logger.Error("Manual scrape failed", zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "started",
		"message": "Scrape run started",
	})
}

// Stats returns the cumulative run statistics.
func (h *ScrapeHandler) Stats(c *fiber.Ctx) error {
	stats := h.engine.Stats()
	return c.JSON(fiber.Map{
		"running":        h.engine.Running(),
		"totalScraped":   stats.TotalScraped,
		"newInternships": stats.NewInternships,
		"errors":         stats.Errors,
		"lastScraped":    stats.LastScraped,
	})
}
