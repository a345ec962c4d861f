package interpret

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mediai/internal/doctree"
)

const (
	maxHeadingLen     = 100 // '#' and numbered headings must be shorter
	maxBoldHeadingLen = 80  // bold-wrapped headings must be shorter
	minHeadingLen     = 4   // trimmed heading shorter than this is body text
)

var (
	numberedHeadingRe = regexp.MustCompile(`^\d+\.\s`)
	titleLeadRe       = regexp.MustCompile(`^[#\d.\s*]+`)
	titleTrailRe      = regexp.MustCompile(`[*:]+$`)
)

// SplitSections splits an analysis response into titled sections.
//
// Lines before the first heading are dropped. Every other non-heading line
// lands, verbatim, in the section open at that point. A response with no
// headings at all becomes one section titled doctree.FallbackTitle holding
// every line.
func SplitSections(markdown string) []*doctree.Section {
	lines := splitLines(markdown)

	var sections []*doctree.Section
	var current *doctree.Section

	for _, line := range lines {
		if isHeadingLine(line) {
			if current != nil {
				sections = append(sections, current)
			}
			title := headingTitle(line)
			current = &doctree.Section{
				Title:    title,
				Lines:    []string{},
				Category: CategoryFor(title),
			}
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	if current != nil {
		sections = append(sections, current)
	}

	if len(sections) == 0 {
		all := make([]string, len(lines))
		copy(all, lines)
		sections = append(sections, &doctree.Section{
			Title:    doctree.FallbackTitle,
			Lines:    all,
			Category: doctree.CategoryGeneral,
		})
	}
	return sections
}

// splitLines splits on "\n", folding CRLF line endings.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

func isHeadingLine(line string) bool {
	n := utf8.RuneCountInString(line)
	hashOrNumbered := (strings.HasPrefix(line, "#") || numberedHeadingRe.MatchString(line)) && n < maxHeadingLen
	bold := strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && n < maxBoldHeadingLen
	if !hashOrNumbered && !bold {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(line)) >= minHeadingLen
}

// headingTitle strips heading punctuation, numbering, bold markers and one
// leading emoji from a heading line.
func headingTitle(line string) string {
	title := titleLeadRe.ReplaceAllString(line, "")
	title = titleTrailRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)
	title = strings.TrimSpace(stripLeadingGlyph(title))
	if title == "" {
		return strings.TrimSpace(line)
	}
	return title
}

// stripLeadingGlyph removes one leading pictograph together with any
// variation selectors or zero-width-joined continuation runes ("👨‍⚕️").
func stripLeadingGlyph(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !isPictograph(r) {
		return s
	}
	rest := s[size:]
	for rest != "" {
		r, size = utf8.DecodeRuneInString(rest)
		switch {
		case r == '\uFE0F' || r == '\uFE0E':
			rest = rest[size:]
		case r == '\u200D':
			rest = rest[size:]
			if _, n := utf8.DecodeRuneInString(rest); n > 0 {
				rest = rest[n:]
			}
		default:
			return rest
		}
	}
	return rest
}

func isPictograph(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1F9FF) ||
		(r >= 0x2600 && r <= 0x26FF) ||
		(r >= 0x2700 && r <= 0x27BF)
}

// findSection returns the first section whose title satisfies match.
func findSection(sections []*doctree.Section, match func(title string) bool) *doctree.Section {
	for _, s := range sections {
		if match(s.Title) {
			return s
		}
	}
	return nil
}
