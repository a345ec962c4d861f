package export

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes doc as plain text, one block per paragraph.
func RenderText(w io.Writer, doc Document) error {
	var sb strings.Builder
	sb.WriteString(doc.Title + "\n")
	if !doc.Generated.IsZero() {
		sb.WriteString("Generated: " + doc.Generated.Local().Format("2006-01-02 15:04 MST") + "\n")
	}
	sb.WriteString("\n" + doc.Disclaimer + "\n\nPatient Basics\n")
	for _, line := range doc.Basics {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\nTriage Level: " + doc.TriageLabel + "\n")
	for _, b := range doc.Blocks {
		fmt.Fprintf(&sb, "\n%s\n%s\n", b.Title, b.Body)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
