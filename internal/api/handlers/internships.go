package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/store"
)

// InternshipsHandler serves the persisted internship catalog.
type InternshipsHandler struct {
	store  *store.InternshipStore
	logger *zap.Logger
}

// NewInternshipsHandler creates a new internships handler
func NewInternshipsHandler(s *store.InternshipStore, logger *zap.Logger) *InternshipsHandler {
	return &InternshipsHandler{store: s, logger: logger}
}

// List returns recent internships, newest first. Supports platform and
// work_type filters plus limit/offset paging.
func (h *InternshipsHandler) List(c *fiber.Ctx) error {
	platform := c.Query("platform")
	workType := c.Query("work_type")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	internships, err := h.store.List(c.Context(), platform, workType, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list internships", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Failed to load internships",
		})
	}

	return c.JSON(fiber.Map{
		"internships": internships,
		"count":       len(internships),
	})
}

// Get returns a single internship by id.
func (h *InternshipsHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_id",
			"message": "Internship id must be a UUID",
		})
	}

	in, err := h.store.Get(c.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Internship not found",
			})
		}
		h.logger.Error("Failed to load internship", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Failed to load internship",
		})
	}

	return c.JSON(in)
}
