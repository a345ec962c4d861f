package interpret

import (
	"strings"
)

// ReportContent holds the export blocks of one response. Each block keeps the
// raw response lines in order; StripMarkdown is applied at render time.
type ReportContent struct {
	Triage    []string `json:"triage"`
	Summary   []string `json:"summary"`
	Handover  []string `json:"handover"`
	Ayurveda  []string `json:"ayurveda"`
	NextSteps []string `json:"next_steps"`
}

type bucket int

const (
	bucketNone bucket = iota
	bucketTriage
	bucketSummary
	bucketHandover
	bucketAyurveda
	bucketNextSteps
	bucketIgnore
	bucketOther
)

// reportHeaderGlyphs mark a header line even without heading syntax.
var reportHeaderGlyphs = []string{"🚨", "📋", "👨", "🌿", "✅"}

// ExtractReport sorts the lines of a response into export blocks in a single
// pass. Header lines switch the active block by keyword; other non-empty lines
// join the active block. Lines under safety or unrecognized headers, and lines
// before the first header, are discarded.
func ExtractReport(markdown string) ReportContent {
	rc := ReportContent{
		Triage:    []string{},
		Summary:   []string{},
		Handover:  []string{},
		Ayurveda:  []string{},
		NextSteps: []string{},
	}

	current := bucketNone
	for _, line := range splitLines(markdown) {
		trimmed := strings.TrimSpace(line)
		if isReportHeader(trimmed) {
			current = bucketFor(strings.ToLower(trimmed))
			continue
		}
		if trimmed == "" {
			continue
		}
		switch current {
		case bucketTriage:
			rc.Triage = append(rc.Triage, line)
		case bucketSummary:
			rc.Summary = append(rc.Summary, line)
		case bucketHandover:
			rc.Handover = append(rc.Handover, line)
		case bucketAyurveda:
			rc.Ayurveda = append(rc.Ayurveda, line)
		case bucketNextSteps:
			rc.NextSteps = append(rc.NextSteps, line)
		}
	}
	return rc
}

func isReportHeader(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") {
		return true
	}
	for _, g := range reportHeaderGlyphs {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

func bucketFor(lower string) bucket {
	switch {
	case containsAny(lower, "triage", "urgency"):
		return bucketTriage
	case strings.Contains(lower, "summary") && !strings.Contains(lower, "handover"):
		return bucketSummary
	case containsAny(lower, "handover", "doctor"):
		return bucketHandover
	case containsAny(lower, "ayurveda", "ayurvedic"):
		return bucketAyurveda
	case containsAny(lower, "next", "can do"):
		return bucketNextSteps
	case containsAny(lower, "safety", "disclaimer"):
		return bucketIgnore
	default:
		return bucketOther
	}
}
