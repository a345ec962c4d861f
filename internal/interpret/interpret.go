// Package interpret turns an analysis response (loosely structured markdown
// from a language model) into display sections, a triage level, a quick
// summary card, narration text and export blocks. Every function here is
// total over arbitrary input and never returns an error.
package interpret

import (
	"github.com/dgallion1/mediai/internal/doctree"
)

// Card is the quick-view triage card.
type Card struct {
	Level       TriageLevel `json:"level"`
	Headline    string      `json:"headline"`
	Description string      `json:"description"`
	Snippet     string      `json:"snippet"`
	Actions     []string    `json:"actions"`
}

// Result is everything the live view needs from one response.
type Result struct {
	Sections []*doctree.Section `json:"sections"`
	Card     Card               `json:"card"`
	// Details are the collapsible sections: all but triage and safety.
	Details []*doctree.Section `json:"details"`
	Speech  string             `json:"speech"`
}

var cardText = map[TriageLevel][2]string{
	TriageEmergency: {"Emergency Recommendation", "Based on the analysis, immediate medical care is recommended."},
	TriageUrgent:    {"Medical Attention Advised", "You should plan to see a doctor soon for evaluation."},
	TriageMild:      {"Likely Mild Condition", "Self-care may be sufficient, but monitor symptoms."},
	TriageUnknown:   {"Analysis Complete", "Review the detailed breakdown below."},
}

// CardText returns the headline and description shown for a level.
func CardText(level TriageLevel) (headline, description string) {
	t, ok := cardText[level]
	if !ok {
		t = cardText[TriageUnknown]
	}
	return t[0], t[1]
}

// Interpret runs the full live-view interpretation of a response.
func Interpret(markdown string) Result {
	sections := SplitSections(markdown)
	level := ClassifySections(sections)
	headline, description := CardText(level)

	details := []*doctree.Section{}
	for _, s := range sections {
		if isTriageTitle(s.Title) || isSafetyTitle(s.Title) {
			continue
		}
		details = append(details, s)
	}

	return Result{
		Sections: sections,
		Card: Card{
			Level:       level,
			Headline:    headline,
			Description: description,
			Snippet:     SummarySnippet(sections),
			Actions:     QuickActions(sections),
		},
		Details: details,
		Speech:  SpeechText(level, SummarySection(sections), NextStepsSection(sections)),
	}
}
