package classify

// Search-intent labels.
const (
	IntentInformational = "informational"
	IntentTransactional = "transactional"
	IntentNavigational  = "navigational"
	IntentUnknown       = "unknown"
)

// Content-format labels produced by the rule-based predictor.
const (
	FormatTool                = "tool"
	FormatComparatorOrLanding = "comparator_or_landing_page"
	FormatEducationalArticle  = "educational_article"
	FormatBrandPageOrGuide    = "brand_page_or_guide"
	FormatOther               = "other"
)

// Result is the label pair contract shared by the adapter and the
// rule-based fallback.
type Result struct {
	Intent            string `json:"intent"`
	RecommendedFormat string `json:"recommended_format"`
}

// Fallback is the sentinel returned whenever the external classification
// call fails in any way.
func Fallback() Result {
	return Result{Intent: IntentUnknown, RecommendedFormat: FormatOther}
}
