package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type sectionView struct {
	Title    string   `json:"title" yaml:"title"`
	Category string   `json:"category" yaml:"category"`
	Lines    []string `json:"lines" yaml:"lines"`
}

type resultView struct {
	Triage      string        `json:"triage" yaml:"triage"`
	TriageLabel string        `json:"triage_label" yaml:"triage_label"`
	Headline    string        `json:"headline" yaml:"headline"`
	Description string        `json:"description" yaml:"description"`
	Snippet     string        `json:"snippet" yaml:"snippet"`
	Actions     []string      `json:"actions" yaml:"actions"`
	Sections    []sectionView `json:"sections" yaml:"sections"`
	Speech      string        `json:"speech" yaml:"speech"`
	RecordID    string        `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

func newResultView(markdown string, res interpret.Result) resultView {
	v := resultView{
		Triage:      string(res.Card.Level),
		TriageLabel: interpret.ClassifyResponse(markdown).Label(),
		Headline:    res.Card.Headline,
		Description: res.Card.Description,
		Snippet:     res.Card.Snippet,
		Actions:     res.Card.Actions,
		Speech:      res.Speech,
	}
	for _, s := range res.Sections {
		v.Sections = append(v.Sections, sectionView{Title: s.Title, Category: string(s.Category), Lines: s.Lines})
	}
	return v
}

// render writes v as json or yaml, or calls human for the default format.
func render(w io.Writer, format string, v any, human func(io.Writer)) error {
	switch strings.ToLower(format) {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(out))
	case "human", "":
		human(w)
	default:
		return fmt.Errorf("unknown output format %q (want human, json or yaml)", format)
	}
	return nil
}

func levelColor(level interpret.TriageLevel) *color.Color {
	switch level {
	case interpret.TriageEmergency:
		return color.New(color.FgRed, color.Bold)
	case interpret.TriageUrgent:
		return color.New(color.FgYellow, color.Bold)
	case interpret.TriageMild:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}

func displayResult(w io.Writer, v resultView, verbose bool) {
	level := interpret.TriageLevel(v.Triage)
	fmt.Fprintln(w)
	levelColor(level).Fprintf(w, "%s\n", strings.ToUpper(v.Headline))
	fmt.Fprintf(w, "   %s\n\n", v.Description)

	color.New(color.FgWhite, color.Bold).Fprintln(w, "Summary:")
	fmt.Fprintf(w, "   %s\n\n", v.Snippet)

	if len(v.Actions) > 0 {
		color.New(color.FgCyan, color.Bold).Fprintln(w, "Next steps:")
		for i, a := range v.Actions {
			fmt.Fprintf(w, "   %d. %s\n", i+1, a)
		}
		fmt.Fprintln(w)
	}

	if verbose {
		for _, s := range v.Sections {
			color.New(color.Bold).Fprintf(w, "%s\n", s.Title)
			for _, line := range s.Lines {
				fmt.Fprintf(w, "   %s\n", line)
			}
			fmt.Fprintln(w)
		}
	} else {
		titles := make([]string, 0, len(v.Sections))
		for _, s := range v.Sections {
			titles = append(titles, s.Title)
		}
		fmt.Fprintf(w, "Sections: %s\n", strings.Join(titles, ", "))
	}
	if v.RecordID != "" {
		fmt.Fprintf(w, "Record: %s\n", v.RecordID)
	}

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "%s\n", color.HiBlackString("MediAI is an AI assistant, not a doctor. Run with -o json or -o yaml for machine-readable output"))
}

type recordRow struct {
	ID          string `json:"id" yaml:"id"`
	Created     string `json:"created" yaml:"created"`
	Age         string `json:"age,omitempty" yaml:"age,omitempty"`
	Sex         string `json:"sex,omitempty" yaml:"sex,omitempty"`
	Conditions  string `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	TriageLevel string `json:"triage_level" yaml:"triage_level"`
	Summary     string `json:"summary" yaml:"summary"`
}

func newRecordRows(records []history.Record) []recordRow {
	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow{
			ID:          r.ID,
			Created:     r.CreatedAt.Local().Format("2006-01-02 15:04"),
			Age:         r.PatientAge,
			Sex:         r.PatientSex,
			Conditions:  r.Conditions,
			TriageLevel: r.TriageLevel,
			Summary:     r.SummaryQuick,
		})
	}
	return rows
}

func displayRecords(w io.Writer, rows []recordRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}
	for _, r := range rows {
		levelColor(interpret.LevelFromLabel(r.TriageLevel)).Fprintf(w, "%-24s", r.TriageLevel)
		fmt.Fprintf(w, " %s  %s  age %s\n", r.ID, r.Created, orNA(r.Age))
		if r.Summary != "" {
			fmt.Fprintf(w, "   %s\n", r.Summary)
		}
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
