// Package export assembles the printable triage report for a history record
// and renders it as PDF or plain text.
package export

import (
	"fmt"
	"time"

	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/interpret"
)

const (
	Title      = "MediAI – Health Triage Report"
	Disclaimer = "MediAI is an AI assistant, not a doctor. This report is for informational purposes only and is not a medical diagnosis or treatment plan. Always consult a professional."
	// EmptyBody stands in for a required block the response did not fill.
	EmptyBody = "Not provided in this analysis."
)

// Block titles in render order.
const (
	BlockTriage    = "Triage"
	BlockSummary   = "Quick Summary"
	BlockHandover  = "Doctor Handover Summary"
	BlockNextSteps = "Recommended Actions"
	BlockAyurveda  = "Ayurvedic Overview"
)

// Block is one titled body of plain text.
type Block struct {
	Title string
	Body  string
}

// Document is the assembled report, independent of output format.
type Document struct {
	Title       string
	Generated   time.Time
	Disclaimer  string
	Basics      []string
	TriageLabel string
	Level       interpret.TriageLevel
	Blocks      []Block
}

// Build assembles the report for rec. The ayurvedic block is included only
// when the response carried one.
func Build(rec history.Record) Document {
	content := interpret.ExtractReport(rec.Markdown)

	doc := Document{
		Title:      Title,
		Generated:  rec.CreatedAt,
		Disclaimer: Disclaimer,
		Basics: []string{
			fmt.Sprintf("Age/Sex: %s / %s", or(rec.PatientAge, "N/A"), or(rec.PatientSex, "N/A")),
			"Duration: " + or(rec.Duration, "N/A"),
			"Conditions: " + or(rec.Conditions, "None"),
			"Medications: " + or(rec.Medications, "None"),
		},
		TriageLabel: or(rec.TriageLevel, interpret.LabelUnknown),
		Level:       rec.Level(),
	}

	for _, b := range []struct {
		title string
		lines []string
	}{
		{BlockTriage, content.Triage},
		{BlockSummary, content.Summary},
		{BlockHandover, content.Handover},
		{BlockNextSteps, content.NextSteps},
	} {
		doc.Blocks = append(doc.Blocks, Block{Title: b.title, Body: or(interpret.StripLines(b.lines), EmptyBody)})
	}
	if body := interpret.StripLines(content.Ayurveda); body != "" {
		doc.Blocks = append(doc.Blocks, Block{Title: BlockAyurveda, Body: body})
	}
	return doc
}

// FileName is the download name for a record's PDF.
func FileName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "MediAI-Report-" + id + ".pdf"
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
