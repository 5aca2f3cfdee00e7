package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/history"
	"github.com/soyrussmadrigal/seo-ai/internal/ingest"
	"github.com/soyrussmadrigal/seo-ai/internal/storage/models"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type HistoryHandler struct {
	service      *history.Service
	deduplicator *ingest.Deduplicator
}

func NewHistoryHandler(service *history.Service, deduplicator *ingest.Deduplicator) *HistoryHandler {
	return &HistoryHandler{service: service, deduplicator: deduplicator}
}

// List returns filtered history records, newest gsc_date first. An empty
// result is a 200 with an empty array.
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	filter := models.HistoryFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Intent:    c.Query("intent"),
		Format:    c.Query("format"),
	}

	records, err := h.service.List(c.Context(), filter)
	if err != nil {
		logger.Error("Failed to list history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list history",
		})
	}

	return c.JSON(records)
}

// Timeseries returns one keyword's daily trend, ascending by date.
func (h *HistoryHandler) Timeseries(c *fiber.Ctx) error {
	keyword := c.Query("text")
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	points, err := h.service.Timeseries(c.Context(), keyword)
	if err != nil {
		logger.Error("Failed to load timeseries", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load timeseries",
		})
	}

	return c.JSON(points)
}

// Import ingests an externally supplied row batch into the history.
func (h *HistoryHandler) Import(c *fiber.Ctx) error {
	var rows []models.AnalyticsRow
	if err := c.BodyParser(&rows); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Row list is empty",
		})
	}

	for _, row := range rows {
		if row.Keyword == "" || row.Date == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Every row needs a keyword and a date",
			})
		}
	}

	summary, err := h.deduplicator.Ingest(c.Context(), rows)
	if err != nil {
		logger.Error("History import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import rows",
		})
	}

	return c.JSON(summary)
}
