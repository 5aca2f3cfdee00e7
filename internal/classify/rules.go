package classify

import "strings"

// Trigger phrases are matched as substrings of the lower-cased query, so
// multi-word phrases like "qué es" work. Order of the sets is the
// priority contract: transactional beats informational beats navigational.
var (
	transactionalTriggers = []string{"comprar", "cotizar", "precio", "solicitar", "contratar", "mejor"}
	informationalTriggers = []string{"qué es", "cómo", "guía", "explicación", "información"}
	navigationalTriggers  = []string{"saldo simple", "sat", "fovissste", "infonavit"}
	toolTriggers          = []string{"simulador", "calculadora"}
)

const titleSuffix = " – sugerencia SEO"

// Prediction is the rule-based classifier's output. TitleSuggestion is an
// auxiliary hint for on-demand callers and is never persisted.
type Prediction struct {
	Intent            string `json:"intent"`
	RecommendedFormat string `json:"recommended_format"`
	TitleSuggestion   string `json:"title_suggestion"`
}

// PredictRuleBased labels a query without any external call. Pure and
// deterministic: the same query always yields the same prediction.
func PredictRuleBased(query string) Prediction {
	lower := strings.ToLower(query)

	intent := IntentInformational
	switch {
	case matchesAny(lower, transactionalTriggers):
		intent = IntentTransactional
	case matchesAny(lower, informationalTriggers):
		intent = IntentInformational
	case matchesAny(lower, navigationalTriggers):
		intent = IntentNavigational
	}

	var format string
	switch {
	case matchesAny(lower, toolTriggers):
		format = FormatTool
	case intent == IntentTransactional:
		format = FormatComparatorOrLanding
	case intent == IntentInformational:
		format = FormatEducationalArticle
	default:
		format = FormatBrandPageOrGuide
	}

	return Prediction{
		Intent:            intent,
		RecommendedFormat: format,
		TitleSuggestion:   capitalize(query) + titleSuffix,
	}
}

func matchesAny(query string, triggers []string) bool {
	for _, trigger := range triggers {
		if strings.Contains(query, trigger) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
