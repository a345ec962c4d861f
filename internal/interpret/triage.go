package interpret

import (
	"strings"

	"github.com/dgallion1/mediai/internal/doctree"
)

// TriageLevel is the coarse urgency of an analysis.
type TriageLevel string

const (
	TriageEmergency TriageLevel = "emergency"
	TriageUrgent    TriageLevel = "urgent"
	TriageMild      TriageLevel = "mild"
	TriageUnknown   TriageLevel = "unknown"
)

// Labels persisted on history records.
const (
	LabelEmergency = "Emergency – Seek Immediate Care"
	LabelUrgent    = "See a Doctor Soon"
	LabelMild      = "Likely Mild – Self-care"
	LabelUnknown   = "Unknown"
)

// Label returns the human-readable label stored on history records.
func (l TriageLevel) Label() string {
	switch l {
	case TriageEmergency:
		return LabelEmergency
	case TriageUrgent:
		return LabelUrgent
	case TriageMild:
		return LabelMild
	default:
		return LabelUnknown
	}
}

// LevelFromLabel recovers a level from a stored label or free text the way
// the doctor view badges records: by "emergency", "soon" or "mild".
func LevelFromLabel(label string) TriageLevel {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "emergency"):
		return TriageEmergency
	case strings.Contains(lower, "soon"), strings.Contains(lower, "urgent"):
		return TriageUrgent
	case strings.Contains(lower, "mild"):
		return TriageMild
	default:
		return TriageUnknown
	}
}

// triageRules is checked in order; earlier levels take priority so a text
// mentioning both "emergency" and "mild" is an emergency.
var triageRules = []struct {
	level   TriageLevel
	phrases []string
}{
	{TriageEmergency, []string{"emergency", "seek immediate care"}},
	{TriageUrgent, []string{"doctor soon", "see a doctor", "urgent", "medical attention advised"}},
	{TriageMild, []string{"mild", "self-care"}},
}

// ClassifyText applies the triage phrase rules to arbitrary text.
func ClassifyText(text string) TriageLevel {
	lower := strings.ToLower(text)
	for _, rule := range triageRules {
		if containsAny(lower, rule.phrases...) {
			return rule.level
		}
	}
	return TriageUnknown
}

// ClassifySections classifies by the first section titled "triage". Without
// such a section the level is TriageUnknown; other sections are never
// consulted.
func ClassifySections(sections []*doctree.Section) TriageLevel {
	triage := findSection(sections, isTriageTitle)
	if triage == nil {
		return TriageUnknown
	}
	return ClassifyText(triage.Text(" "))
}

// Scope selects the text a classification reads.
type Scope int

const (
	// ScopeSections reads only the first section titled "triage".
	ScopeSections Scope = iota
	// ScopeDocument reads the whole response.
	ScopeDocument
)

// Classify applies the triage rules to markdown in the given scope.
func Classify(markdown string, scope Scope) TriageLevel {
	if scope == ScopeDocument {
		return ClassifyText(markdown)
	}
	return ClassifySections(SplitSections(markdown))
}

// ClassifyResponse classifies a whole response. It uses the triage section
// when the response has one and scans the full text otherwise.
func ClassifyResponse(markdown string) TriageLevel {
	sections := SplitSections(markdown)
	if findSection(sections, isTriageTitle) != nil {
		return ClassifySections(sections)
	}
	return ClassifyText(markdown)
}
