// Package history keeps the newest-first log of past analyses that the
// doctor view reads, and persists it as one JSON list in a named slot.
package history

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
	"github.com/google/uuid"
)

// Record is one persisted analysis. It is never modified after creation.
type Record struct {
	ID           string    `json:"id" yaml:"id"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	PatientAge   string    `json:"patientAge,omitempty" yaml:"patientAge,omitempty"`
	PatientSex   string    `json:"patientSex,omitempty" yaml:"patientSex,omitempty"`
	Duration     string    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Conditions   string    `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Medications  string    `json:"medications,omitempty" yaml:"medications,omitempty"`
	TriageLevel  string    `json:"triageLevel" yaml:"triageLevel"`
	SummaryQuick string    `json:"summaryQuick" yaml:"summaryQuick"`
	Markdown     string    `json:"markdown" yaml:"markdown"`
}

// Level recovers the triage level from the stored label.
func (r Record) Level() interpret.TriageLevel {
	return interpret.LevelFromLabel(r.TriageLevel)
}

// MaxSummaryRunes bounds SummaryQuick before the continuation marker.
const MaxSummaryRunes = 150

// Builder creates records. The zero value uses time.Now and random UUIDs.
type Builder struct {
	Now   func() time.Time
	NewID func() string
}

// Build creates the record for one successful analysis.
func (b Builder) Build(markdown string, p patient.Data) Record {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	newID := uuid.NewString
	if b.NewID != nil {
		newID = b.NewID
	}
	return Record{
		ID:           newID(),
		CreatedAt:    now().UTC(),
		PatientAge:   p.Age,
		PatientSex:   string(p.Sex),
		Duration:     p.Duration,
		Conditions:   p.Conditions,
		Medications:  p.Medications,
		TriageLevel:  interpret.ClassifyResponse(markdown).Label(),
		SummaryQuick: QuickSummary(markdown),
		Markdown:     markdown,
	}
}

var (
	summaryHeadingRe  = regexp.MustCompile(`^(#|\*\*|\d+\.)`)
	summaryStopGlyphs = []string{"🚨", "🚦", "🔍", "🎯", "📄", "🌿", "✅", "🧭", "👨"}
)

// QuickSummary captures the body of the "Summary of Understanding" (or
// "Quick Summary") section as one line, cut to MaxSummaryRunes runes plus
// "..." when longer. It returns "" when no such section exists.
func QuickSummary(markdown string) string {
	var parts []string
	capturing := false
	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if !capturing {
			capturing = isSummaryHeading(trimmed)
			continue
		}
		if isSummaryStop(trimmed) {
			break
		}
		if text := strings.TrimSpace(strings.ReplaceAll(trimmed, "**", "")); text != "" {
			parts = append(parts, text)
		}
	}
	return truncateRunes(strings.Join(parts, " "), MaxSummaryRunes)
}

func isSummaryHeading(line string) bool {
	marked := summaryHeadingRe.MatchString(line) ||
		strings.Contains(line, "📋") || strings.Contains(line, "🔎")
	if !marked {
		return false
	}
	lower := strings.ToLower(line)
	return (strings.Contains(lower, "summary") && strings.Contains(lower, "understanding")) ||
		strings.Contains(lower, "quick summary")
}

func isSummaryStop(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "**") {
		return true
	}
	for _, g := range summaryStopGlyphs {
		if strings.HasPrefix(line, g) {
			return true
		}
	}
	return false
}

// truncateRunes cuts s to n runes and appends "..." when anything was cut.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
