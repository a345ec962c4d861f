package interpret

import (
	"regexp"
	"strings"

	"github.com/dgallion1/mediai/internal/doctree"
)

// SnippetFallback is shown when no summary line qualifies as a snippet.
const SnippetFallback = "Review the full summary below."

// MaxQuickActions bounds the action list on the triage card.
const MaxQuickActions = 3

var (
	bulletLineRe   = regexp.MustCompile(`^(?:[-*]|\d+\.)`)
	bulletMarkerRe = regexp.MustCompile(`^(?:[-*]|\d+\.)\s*`)
)

// SummarySection returns the first section whose title mentions "summary"
// but not "handover", or nil.
func SummarySection(sections []*doctree.Section) *doctree.Section {
	return findSection(sections, isSummaryTitle)
}

// NextStepsSection returns the first section whose title mentions "next" or
// "can do", or nil.
func NextStepsSection(sections []*doctree.Section) *doctree.Section {
	return findSection(sections, isNextStepsTitle)
}

// SummarySnippet returns the first non-empty, non-bullet line of the summary
// section with bold markers removed, or SnippetFallback.
func SummarySnippet(sections []*doctree.Section) string {
	summary := SummarySection(sections)
	if summary == nil {
		return SnippetFallback
	}
	for _, line := range summary.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "-") {
			continue
		}
		if snippet := strings.TrimSpace(strings.ReplaceAll(trimmed, "**", "")); snippet != "" {
			return snippet
		}
	}
	return SnippetFallback
}

// QuickActions returns up to MaxQuickActions bullet lines from the next-steps
// section, with bullet and bold markers removed.
func QuickActions(sections []*doctree.Section) []string {
	actions := []string{}
	next := NextStepsSection(sections)
	if next == nil {
		return actions
	}
	for _, line := range bulletLines(next.Lines) {
		if len(actions) == MaxQuickActions {
			break
		}
		action := bulletMarkerRe.ReplaceAllString(strings.TrimSpace(line), "")
		actions = append(actions, strings.TrimSpace(strings.ReplaceAll(action, "**", "")))
	}
	return actions
}

// bulletLines keeps the lines that start with "-", "*" or "N." after
// leading whitespace.
func bulletLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if bulletLineRe.MatchString(strings.TrimSpace(line)) {
			out = append(out, line)
		}
	}
	return out
}
