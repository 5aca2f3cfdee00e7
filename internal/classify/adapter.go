package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/llm"
	"github.com/soyrussmadrigal/seo-ai/internal/metrics"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

const systemPrompt = `You are an SEO assistant that labels user search queries. Always answer with a single compact JSON object and nothing else.`

const promptTemplate = `Given the following user search query: %q, respond in JSON with two fields:
- "intent": choose from ["informational", "transactional", "navigational"]
- "recommended_format": choose from ["article", "tool", "comparator", "landing page", "guide", "FAQ", "other"]

Example:
{"intent": "informational", "recommended_format": "article"}

Response:`

// Adapter turns a keyword into an intent/format label pair through a
// chat-completion call. Classify is total: every failure mode collapses
// into the unknown/other sentinel instead of an error.
type Adapter struct {
	completer llm.Completer
}

func NewAdapter(completer llm.Completer) *Adapter {
	return &Adapter{completer: completer}
}

func (a *Adapter) Classify(ctx context.Context, query string) Result {
	start := time.Now()
	defer func() {
		metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	}()

	resp, err := a.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(promptTemplate, query),
	})
	if err != nil {
		logger.Warn("Classification call failed",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.ClassificationsTotal.WithLabelValues("fallback").Inc()
		return Fallback()
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		logger.Warn("Classification response rejected",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.ClassificationsTotal.WithLabelValues("fallback").Inc()
		return Fallback()
	}

	metrics.ClassificationsTotal.WithLabelValues("ok").Inc()
	return result
}

// parseResult validates the completion content as a strict two-field JSON
// object. Model output is data, never evaluated; anything that does not
// decode cleanly fails closed.
func parseResult(content string) (Result, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Result{}, fmt.Errorf("no JSON object in response")
	}

	var result Result
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return Result{}, fmt.Errorf("malformed classification payload: %w", err)
	}

	if result.Intent == "" || result.RecommendedFormat == "" {
		return Result{}, fmt.Errorf("classification payload missing fields")
	}

	return result, nil
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
