package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictRuleBasedTransactionalPriority(t *testing.T) {
	// "solicitar" must win over the informational-looking "cómo".
	p := PredictRuleBased("¿cómo solicitar un préstamo?")

	assert.Equal(t, IntentTransactional, p.Intent)
	assert.Equal(t, FormatComparatorOrLanding, p.RecommendedFormat)
}

func TestPredictRuleBasedIntents(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		intent string
		format string
	}{
		{
			name:   "transactional trigger",
			query:  "comprar seguro de auto",
			intent: IntentTransactional,
			format: FormatComparatorOrLanding,
		},
		{
			name:   "informational trigger",
			query:  "qué es el buró de crédito",
			intent: IntentInformational,
			format: FormatEducationalArticle,
		},
		{
			name:   "navigational brand trigger",
			query:  "fovissste puntos",
			intent: IntentNavigational,
			format: FormatBrandPageOrGuide,
		},
		{
			name:   "no trigger defaults to informational",
			query:  "préstamo personal sin aval",
			intent: IntentInformational,
			format: FormatEducationalArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PredictRuleBased(tt.query)
			assert.Equal(t, tt.intent, p.Intent)
			assert.Equal(t, tt.format, p.RecommendedFormat)
		})
	}
}

func TestPredictRuleBasedToolTriggerOverridesIntent(t *testing.T) {
	// Tool triggers force the format regardless of the resolved intent.
	p := PredictRuleBased("calculadora para cotizar hipoteca")

	assert.Equal(t, IntentTransactional, p.Intent)
	assert.Equal(t, FormatTool, p.RecommendedFormat)
}

func TestPredictRuleBasedDeterminism(t *testing.T) {
	first := PredictRuleBased("¿cómo solicitar un préstamo?")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, PredictRuleBased("¿cómo solicitar un préstamo?"))
	}
}

func TestPredictRuleBasedTitleSuggestion(t *testing.T) {
	p := PredictRuleBased("simulador de crédito")

	assert.Equal(t, "Simulador de crédito – sugerencia SEO", p.TitleSuggestion)
}
