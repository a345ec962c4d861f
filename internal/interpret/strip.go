package interpret

import (
	"regexp"
	"strings"
)

// BulletGlyph replaces list markers in stripped text.
const BulletGlyph = "•"

// stripSteps run in order. Math and currency symbols are kept so values like
// "< 5 mg" survive; line breaks and tabs are kept for layout.
var stripSteps = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`[\p{So}\p{Sk}\p{Cf}\p{Co}\x{FE0E}\x{FE0F}\x{20E3}]`), ""},
	{regexp.MustCompile(`(?m)^#{1,6}[ \t]*`), ""},
	{regexp.MustCompile(`(?m)^>[ \t]?`), ""},
	{regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*[-+*][ \t]+`), BulletGlyph + " "},
	{regexp.MustCompile("[*_`~]"), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
	{regexp.MustCompile(`[ \t]{2,}`), " "},
}

// StripMarkdown reduces markdown to plain text for the export renderer. It
// has no structural awareness and is safe on any input.
func StripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, step := range stripSteps {
		text = step.re.ReplaceAllString(text, step.repl)
	}
	return strings.TrimSpace(text)
}

// StripLines joins lines with "\n" and strips the result.
func StripLines(lines []string) string {
	return StripMarkdown(strings.Join(lines, "\n"))
}
