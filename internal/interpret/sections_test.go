package interpret

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/mediai/internal/doctree"
)

func TestSplitSections_HeadingStyles(t *testing.T) {
	input := `### ⚠️ Safety Disclaimer
I am an AI assistant.
**1. Summary of Understanding:**
Fever for two days.
2. 🚨 Triage & Urgency
See a doctor soon.
## 👨‍⚕️ Doctor Handover Summary
Handover text.`

	sections := SplitSections(input)
	want := []string{"Safety Disclaimer", "Summary of Understanding", "Triage & Urgency", "Doctor Handover Summary"}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, s := range sections {
		if s.Title != want[i] {
			t.Errorf("section %d: expected title %q, got %q", i, want[i], s.Title)
		}
		if len(s.Lines) != 1 {
			t.Errorf("section %d: expected 1 line, got %d", i, len(s.Lines))
		}
	}

	if sections[0].Category != doctree.CategorySafety {
		t.Errorf("expected safety category, got %q", sections[0].Category)
	}
	if sections[2].Category != doctree.CategoryTriage {
		t.Errorf("expected triage category, got %q", sections[2].Category)
	}
}

func TestSplitSections_RejectsShortAndLongCandidates(t *testing.T) {
	long := "**" + strings.Repeat("x", 90) + "**"
	input := "# Title\n#ab\n" + long + "\nbody"

	sections := SplitSections(input)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	want := []string{"#ab", long, "body"}
	if !reflect.DeepEqual(sections[0].Lines, want) {
		t.Errorf("expected lines %q, got %q", want, sections[0].Lines)
	}
}

func TestSplitSections_EmptySectionBody(t *testing.T) {
	sections := SplitSections("## First Heading\n## Second Heading\ntext")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Lines == nil || len(sections[0].Lines) != 0 {
		t.Errorf("expected empty non-nil lines, got %#v", sections[0].Lines)
	}
}

func TestSplitSections_NoHeadingsFallback(t *testing.T) {
	input := "line one\nline two\n"
	sections := SplitSections(input)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if s.Title != doctree.FallbackTitle {
		t.Errorf("expected title %q, got %q", doctree.FallbackTitle, s.Title)
	}
	want := []string{"line one", "line two", ""}
	if !reflect.DeepEqual(s.Lines, want) {
		t.Errorf("expected lines %q, got %q", want, s.Lines)
	}
}

func TestSplitSections_ReconstructsInput(t *testing.T) {
	input := `preamble that is dropped
## Summary
first

second
**Next Steps**
- one
- two
# Final Words
tail`

	sections := SplitSections(input)
	lines := strings.Split(input, "\n")

	// Walk the input: headings open sections, everything else must appear
	// in order in the open section.
	var rebuilt, expected []string
	idx := -1
	for _, line := range lines {
		if isHeadingLine(line) {
			idx++
			continue
		}
		if idx >= 0 {
			expected = append(expected, line)
		}
	}
	if idx+1 != len(sections) {
		t.Fatalf("expected %d sections, got %d", idx+1, len(sections))
	}
	for _, s := range sections {
		rebuilt = append(rebuilt, s.Lines...)
	}
	if !reflect.DeepEqual(rebuilt, expected) {
		t.Errorf("expected content %q, got %q", expected, rebuilt)
	}
}

func TestSplitSections_CRLF(t *testing.T) {
	sections := SplitSections("# Title\r\nbody\r\n")
	if sections[0].Title != "Title" {
		t.Errorf("expected %q, got %q", "Title", sections[0].Title)
	}
	if sections[0].Lines[0] != "body" {
		t.Errorf("expected %q, got %q", "body", sections[0].Lines[0])
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		title string
		want  doctree.Category
	}{
		{"Safety Disclaimer", doctree.CategorySafety},
		{"Summary of Understanding", doctree.CategorySummary},
		{"Triage & Urgency", doctree.CategoryTriage},
		{"Possible Explanations", doctree.CategoryExplanation},
		{"Differential", doctree.CategoryExplanation},
		{"Lab/Report Interpretation", doctree.CategoryReport},
		{"Ayurvedic Lens", doctree.CategoryAyurveda},
		{"What You Can Do Next", doctree.CategoryNextSteps},
		{"Doctor Handover", doctree.CategoryHandover},
		{"Doctor Handover Summary", doctree.CategorySummary},
		{"Closing Remarks", doctree.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := CategoryFor(tt.title); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
