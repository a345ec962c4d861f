package doctree

import "strings"

// FallbackTitle names the single section emitted when a response has no
// recognizable headings.
const FallbackTitle = "Analysis Output"

// Category is the presentation class of a section, derived from its title.
type Category string

const (
	CategorySafety      Category = "safety"
	CategorySummary     Category = "summary"
	CategoryTriage      Category = "triage"
	CategoryExplanation Category = "explanation"
	CategoryReport      Category = "report"
	CategoryAyurveda    Category = "ayurveda"
	CategoryNextSteps   Category = "next_steps"
	CategoryHandover    Category = "handover"
	CategoryGeneral     Category = "general"
)

// Section is a titled, contiguous span of an analysis response.
type Section struct {
	Title    string   `json:"title"`    // Normalized heading text, never empty
	Lines    []string `json:"lines"`    // Raw content lines in source order
	Category Category `json:"category"` // Derived from Title
}

// Text joins the section's lines with sep. A nil section yields "".
func (s *Section) Text(sep string) string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Lines, sep)
}
