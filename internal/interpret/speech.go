package interpret

import (
	"regexp"
	"strings"

	"github.com/dgallion1/mediai/internal/doctree"
)

// Narration openers per triage level. TriageUnknown contributes nothing.
var triageNarration = map[TriageLevel]string{
	TriageEmergency: "Emergency Recommendation. Immediate medical care is recommended.",
	TriageUrgent:    "Medical Attention Advised. You should plan to see a doctor soon.",
	TriageMild:      "Likely Mild Condition. Self-care may be sufficient.",
}

var (
	speechLinkRe   = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	speechBulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s+`)
	repeatedDotRe  = regexp.MustCompile(`\.{2,}`)
)

// SpeechText composes the narration handed to a text-to-speech engine:
// the triage opener, the summary, then the next steps.
func SpeechText(level TriageLevel, summary, nextSteps *doctree.Section) string {
	var parts []string
	if opener, ok := triageNarration[level]; ok {
		parts = append(parts, opener)
	}

	if summary != nil {
		parts = append(parts, "Summary: "+speakableJoin(summary.Lines))
	}

	if nextSteps != nil {
		lines := bulletLines(nextSteps.Lines)
		if len(lines) == 0 {
			lines = nextSteps.Lines
		}
		parts = append(parts, "Next steps: "+speakableJoin(lines))
	}

	text := strings.Join(parts, ". ")
	return strings.TrimSpace(repeatedDotRe.ReplaceAllString(text, "."))
}

// speakableJoin cleans each line and joins the non-empty ones with ". ".
func speakableJoin(lines []string) string {
	var kept []string
	for _, line := range lines {
		if c := cleanSpeechLine(line); c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, ". ")
}

// cleanSpeechLine drops emphasis markers, links and bullet markers.
func cleanSpeechLine(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "__", "")
	line = speechLinkRe.ReplaceAllString(line, "")
	line = speechBulletRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
