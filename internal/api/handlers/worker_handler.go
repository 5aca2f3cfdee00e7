package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/worker"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type WorkerHandler struct {
	resolver     *worker.Resolver
	defaultLimit int
}

func NewWorkerHandler(resolver *worker.Resolver, defaultLimit int) *WorkerHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &WorkerHandler{resolver: resolver, defaultLimit: defaultLimit}
}

// ClassifyPending runs one bounded classification batch over records
// still in the pending state.
func (h *WorkerHandler) ClassifyPending(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.defaultLimit)
	if limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive",
		})
	}

	resolved, err := h.resolver.ResolvePending(c.Context(), limit)
	if err != nil {
		logger.Error("Pending classification batch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to classify pending records",
		})
	}

	return c.JSON(fiber.Map{
		"classified": resolved,
	})
}
