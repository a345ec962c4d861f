package interpret

import (
	"testing"

	"github.com/dgallion1/mediai/internal/doctree"
)

func TestSpeechText_EndToEnd(t *testing.T) {
	sections := SplitSections(urgentResponse)
	got := SpeechText(ClassifySections(sections), SummarySection(sections), NextStepsSection(sections))
	want := "Medical Attention Advised. You should plan to see a doctor soon. " +
		"Summary: Patient reports fever and cough for 3 days. " +
		"Next steps: Rest and hydrate. Monitor temperature. See a doctor if fever persists"
	if got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
}

func TestSpeechText_UnknownContributesNothing(t *testing.T) {
	if got := SpeechText(TriageUnknown, nil, nil); got != "" {
		t.Errorf("expected empty narration, got %q", got)
	}
}

func TestSpeechText_NextStepsWithoutBullets(t *testing.T) {
	next := &doctree.Section{Title: "Next", Lines: []string{"Rest today.", "", "Drink **water**"}}
	got := SpeechText(TriageMild, nil, next)
	want := "Likely Mild Condition. Self-care may be sufficient. Next steps: Rest today. Drink water"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSpeechText_LinksDropped(t *testing.T) {
	summary := &doctree.Section{Title: "Summary", Lines: []string{"Read [the guide](http://x)", "- __Stay__ calm"}}
	got := SpeechText(TriageEmergency, summary, nil)
	want := "Emergency Recommendation. Immediate medical care is recommended. Summary: Read. Stay calm"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
