package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/classify"
	"github.com/soyrussmadrigal/seo-ai/internal/worker"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type ClassifyHandler struct {
	classifier worker.Classifier
}

func NewClassifyHandler(classifier worker.Classifier) *ClassifyHandler {
	return &ClassifyHandler{classifier: classifier}
}

type keywordResult struct {
	Query             string `json:"query"`
	Intent            string `json:"intent"`
	RecommendedFormat string `json:"recommended_format"`
}

// ClassifyKeywords labels a batch of keywords on demand, bypassing
// persistence entirely.
func (h *ClassifyHandler) ClassifyKeywords(c *fiber.Ctx) error {
	var req struct {
		Keywords []string `json:"keywords"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Keywords) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Keywords list is empty",
		})
	}

	results := make([]keywordResult, 0, len(req.Keywords))
	for _, keyword := range req.Keywords {
		result := h.classifier.Classify(c.Context(), keyword)
		results = append(results, keywordResult{
			Query:             keyword,
			Intent:            result.Intent,
			RecommendedFormat: result.RecommendedFormat,
		})
	}

	return c.JSON(results)
}

// Predict labels one keyword with the deterministic rule fallback.
func (h *ClassifyHandler) Predict(c *fiber.Ctx) error {
	var req struct {
		Keyword string `json:"keyword"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Keyword is required",
		})
	}

	return c.JSON(classify.PredictRuleBased(req.Keyword))
}
