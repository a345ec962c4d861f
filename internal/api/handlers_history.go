package api

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/dgallion1/mediai/internal/export"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// recordSummary is a dashboard row; the markdown is fetched per record.
type recordSummary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	PatientAge   string    `json:"patientAge,omitempty"`
	PatientSex   string    `json:"patientSex,omitempty"`
	Conditions   string    `json:"conditions,omitempty"`
	TriageLevel  string    `json:"triageLevel"`
	SummaryQuick string    `json:"summaryQuick"`
}

// handleListHistory lists records newest first, filtered by ?level= and ?q=.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	level, err := history.ParseLevelFilter(r.URL.Query().Get("level"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	records := s.history.Find(history.Query{Level: level, Search: r.URL.Query().Get("q")})

	rows := make([]recordSummary, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordSummary{
			ID:           rec.ID,
			CreatedAt:    rec.CreatedAt,
			PatientAge:   rec.PatientAge,
			PatientSex:   rec.PatientSex,
			Conditions:   rec.Conditions,
			TriageLevel:  rec.TriageLevel,
			SummaryQuick: rec.SummaryQuick,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    rows,
		"total":      s.history.Len(),
		"persistent": s.history.Persistent(),
	})
}

func (s *Server) record(w http.ResponseWriter, r *http.Request) (history.Record, bool) {
	rec, ok := s.history.Get(chi.URLParam(r, "id"))
	if !ok {
		jsonError(w, "record not found", http.StatusNotFound)
	}
	return rec, ok
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if rec, ok := s.record(w, r); ok {
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleRecordPDF(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.record(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.RenderPDF(&buf, export.Build(rec)); err != nil {
		s.log.Error("pdf export failed", "record_id", rec.ID, "error", err)
		jsonError(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(rec.ID)+`"`)
	w.Write(buf.Bytes())
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

var recordPage = template.Must(template.New("record").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header>
<h1>{{.Title}}</h1>
<p><strong>Triage Level:</strong> {{.Record.TriageLevel}}</p>
<p>Age/Sex: {{or .Record.PatientAge "N/A"}} / {{or .Record.PatientSex "N/A"}} · Duration: {{or .Record.Duration "N/A"}}</p>
<p><em>{{.Disclaimer}}</em></p>
</header>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// handleRecordHTML renders a record's full response for the doctor viewer.
func (s *Server) handleRecordHTML(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.record(w, r)
	if !ok {
		return
	}
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(rec.Markdown), &body); err != nil {
		s.log.Error("render markdown failed", "record_id", rec.ID, "error", err)
		jsonError(w, "failed to render record", http.StatusInternalServerError)
		return
	}
	var page bytes.Buffer
	err := recordPage.Execute(&page, map[string]any{
		"Title":      export.Title,
		"Disclaimer": export.Disclaimer,
		"Record":     rec,
		// goldmark escapes raw HTML in the source by default.
		"Body": template.HTML(body.String()),
	})
	if err != nil {
		s.log.Error("render page failed", "record_id", rec.ID, "error", err)
		jsonError(w, "failed to render record", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Bytes())
}
