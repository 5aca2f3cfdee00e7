package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/gsc"
	"github.com/soyrussmadrigal/seo-ai/internal/ingest"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type GSCHandler struct {
	fetcher      *gsc.Fetcher
	deduplicator *ingest.Deduplicator
}

// NewGSCHandler builds the Search Console endpoints. fetcher may be nil
// when the property is not configured; the endpoints then answer 503.
func NewGSCHandler(fetcher *gsc.Fetcher, deduplicator *ingest.Deduplicator) *GSCHandler {
	return &GSCHandler{fetcher: fetcher, deduplicator: deduplicator}
}

// Extract fetches analytics rows without persisting anything.
func (h *GSCHandler) Extract(c *fiber.Ctx) error {
	if h.fetcher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Search Console is not configured",
		})
	}

	days := c.QueryInt("days", 1)
	if days < 1 || days > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be between 1 and 90",
		})
	}

	rows, err := h.fetcher.Fetch(c.Context(), days)
	if err != nil {
		logger.Error("GSC extraction failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"rows":   len(rows),
		"data":   rows,
	})
}

// Sync fetches analytics rows and merges them into the history.
func (h *GSCHandler) Sync(c *fiber.Ctx) error {
	if h.fetcher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Search Console is not configured",
		})
	}

	days := c.QueryInt("days", 30)
	if days < 1 || days > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be between 1 and 90",
		})
	}

	rows, err := h.fetcher.Fetch(c.Context(), days)
	if err != nil {
		logger.Error("GSC sync fetch failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	summary, err := h.deduplicator.Ingest(c.Context(), rows)
	if err != nil {
		logger.Error("GSC sync ingest failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to ingest fetched rows",
		})
	}

	return c.JSON(summary)
}
