package interpret

import (
	"strings"

	"github.com/dgallion1/mediai/internal/doctree"
)

// categoryRule maps any of a set of lowercase title keywords to a category.
type categoryRule struct {
	keywords []string
	category doctree.Category
}

// categoryRules is evaluated in order; the first rule with a matching keyword
// wins. Section lookups elsewhere in this package use the same keywords.
var categoryRules = []categoryRule{
	{[]string{"safety"}, doctree.CategorySafety},
	{[]string{"summary"}, doctree.CategorySummary},
	{[]string{"triage"}, doctree.CategoryTriage},
	{[]string{"explanation", "differential"}, doctree.CategoryExplanation},
	{[]string{"report", "lab"}, doctree.CategoryReport},
	{[]string{"ayurveda", "ayurvedic"}, doctree.CategoryAyurveda},
	{[]string{"next", "can do"}, doctree.CategoryNextSteps},
	{[]string{"doctor", "handover"}, doctree.CategoryHandover},
}

// CategoryFor classifies a section title by case-insensitive keyword match.
func CategoryFor(title string) doctree.Category {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords...) {
			return rule.category
		}
	}
	return doctree.CategoryGeneral
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Title predicates used by section lookups. These match on title text, not
// on the derived category: "Doctor Handover Summary" categorizes as summary
// but is never the summary section.

func isTriageTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "triage")
}

func isSafetyTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "safety")
}

func isSummaryTitle(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "summary") && !strings.Contains(lower, "handover")
}

func isNextStepsTitle(title string) bool {
	return containsAny(strings.ToLower(title), "next", "can do")
}
