package history

import (
	"fmt"
	"strings"
)

// LevelFilter selects records by triage level in the doctor view.
type LevelFilter string

const (
	FilterAll       LevelFilter = "all"
	FilterEmergency LevelFilter = "emergency"
	FilterUrgent    LevelFilter = "urgent"
	FilterMild      LevelFilter = "mild"
)

// ParseLevelFilter accepts the filter names case-insensitively. Empty means
// FilterAll.
func ParseLevelFilter(s string) (LevelFilter, error) {
	switch f := LevelFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterEmergency, FilterUrgent, FilterMild:
		return f, nil
	default:
		return "", fmt.Errorf("unknown triage filter %q (want all, emergency, urgent or mild)", s)
	}
}

// labelKey is the substring of a stored label that selects each filter.
var labelKey = map[LevelFilter]string{
	FilterEmergency: "emergency",
	FilterUrgent:    "soon",
	FilterMild:      "mild",
}

// Query is a doctor-view search.
type Query struct {
	Level LevelFilter
	// Search matches case-insensitively against conditions, the quick
	// summary and the patient's age.
	Search string
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if key, ok := labelKey[q.Level]; ok && !strings.Contains(strings.ToLower(r.TriageLevel), key) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{r.Conditions, r.SummaryQuick, r.PatientAge} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
