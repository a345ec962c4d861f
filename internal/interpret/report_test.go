package interpret

import (
	"reflect"
	"testing"
)

const fullResponse = `## ⚠️ Safety Disclaimer
I am not a doctor.
## 📋 Summary of Understanding
Patient reports fever.
## 🚨 Triage & Urgency
See a doctor soon.
## 🔍 Possible Explanations
Viral infection.
## 🌿 Ayurvedic Lens
Ginger tea.
## ✅ What You Can Do Next
- Rest

- Hydrate
## 👨‍⚕️ Doctor Handover Summary
Fever 3 days.`

func TestExtractReport_Buckets(t *testing.T) {
	rc := ExtractReport(fullResponse)

	checks := []struct {
		name string
		got  []string
		want []string
	}{
		{"triage", rc.Triage, []string{"See a doctor soon."}},
		{"summary", rc.Summary, []string{"Patient reports fever."}},
		{"handover", rc.Handover, []string{"Fever 3 days."}},
		{"ayurveda", rc.Ayurveda, []string{"Ginger tea."}},
		{"next steps", rc.NextSteps, []string{"- Rest", "- Hydrate"}},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s: expected %q, got %q", c.name, c.want, c.got)
		}
	}
}

func TestExtractReport_GlyphHeaderAndPreamble(t *testing.T) {
	rc := ExtractReport("preamble\n🚨 Triage\nEmergency.\n**Random header**\nignored")
	if !reflect.DeepEqual(rc.Triage, []string{"Emergency."}) {
		t.Errorf("expected triage [Emergency.], got %q", rc.Triage)
	}
	if len(rc.Summary)+len(rc.Handover)+len(rc.Ayurveda)+len(rc.NextSteps) != 0 {
		t.Errorf("expected other buckets empty, got %+v", rc)
	}
}

func TestStripLines_BucketText(t *testing.T) {
	got := StripLines([]string{"**Bold** text with [a link](http://x) and", "- a bullet"})
	want := "Bold text with a link and\n• a bullet"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading and emoji", "### 🚨 Heading\n> quoted", "Heading\nquoted"},
		{"newlines collapse", "a\n\n\n\nb", "a\n\nb"},
		{"spaces collapse", "x  <  5   mg", "x < 5 mg"},
		{"variation selector", "Take ⚠️ care", "Take care"},
		{"bullets", "* item\n  + other", "• item\n• other"},
		{"emphasis", "_a_ `b` ~~c~~", "a b c"},
		{"trim", "  \n text \n ", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
