package interpret

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const urgentResponse = "## 🚨 Triage & Urgency\nSee a doctor soon for evaluation.\n## 📋 Summary of Understanding\nPatient reports fever and cough for 3 days.\n## ✅ What You Can Do Next\n- Rest and hydrate\n- Monitor temperature\n- See a doctor if fever persists"

func TestSummaryExtraction_EndToEnd(t *testing.T) {
	sections := SplitSections(urgentResponse)

	if got := ClassifySections(sections); got != TriageUrgent {
		t.Errorf("expected %q, got %q", TriageUrgent, got)
	}
	if got := SummarySnippet(sections); got != "Patient reports fever and cough for 3 days." {
		t.Errorf("unexpected snippet %q", got)
	}
	want := []string{"Rest and hydrate", "Monitor temperature", "See a doctor if fever persists"}
	if got := QuickActions(sections); !reflect.DeepEqual(got, want) {
		t.Errorf("expected actions %q, got %q", want, got)
	}
}

func TestQuickActions_AtMostThree(t *testing.T) {
	var b strings.Builder
	b.WriteString("## Next Steps\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&b, "- step %d\n", i)
	}
	got := QuickActions(SplitSections(b.String()))
	if len(got) != MaxQuickActions {
		t.Fatalf("expected %d actions, got %d", MaxQuickActions, len(got))
	}
	if got[2] != "step 3" {
		t.Errorf("expected %q, got %q", "step 3", got[2])
	}
}

func TestQuickActions_MarkersStripped(t *testing.T) {
	got := QuickActions(SplitSections("## What you can do\nIntro line\n  1. **Rest** well\n  * Drink fluids"))
	want := []string{"Rest well", "Drink fluids"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestQuickActions_NoSection(t *testing.T) {
	got := QuickActions(SplitSections("## Summary\ntext"))
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %#v", got)
	}
}

func TestSummarySnippet_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bullet only", "## Summary\n- nothing else", SnippetFallback},
		{"no summary", "## Triage\nmild", SnippetFallback},
		{"bold stripped", "## Summary\n\n**Fever** for two days", "Fever for two days"},
		{"handover skipped", "## Doctor Handover Summary\nHandover.\n## Quick Summary\nReal summary.", "Real summary."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarySnippet(SplitSections(tt.input)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
