package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/attach"
	"github.com/dgallion1/mediai/internal/consult"
	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
)

var errTooLarge = errors.New("file too large")

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Every attachment may be up to MaxUploadBytes; extra 1MB for form overhead.
	limit := s.cfg.MaxUploadBytes*int64(s.cfg.MaxSymptomImages+2) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	includeAyurveda, _ := strconv.ParseBool(r.FormValue("include_ayurveda"))
	p := patient.Data{
		Age:               strings.TrimSpace(r.FormValue("age")),
		Sex:               patient.ParseGender(r.FormValue("sex")),
		PreferredLanguage: patient.ParseLanguage(r.FormValue("preferred_language")),
		Duration:          strings.TrimSpace(r.FormValue("duration")),
		Conditions:        strings.TrimSpace(r.FormValue("conditions")),
		Medications:       strings.TrimSpace(r.FormValue("medications")),
		Symptoms:          strings.TrimSpace(r.FormValue("symptoms")),
		IncludeAyurveda:   includeAyurveda,
	}

	media, err := s.readMedia(r.MultipartForm)
	if errors.Is(err, errTooLarge) {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.consult.Analyze(r.Context(), analysis.Request{Patient: p, Media: media})
	if err != nil {
		s.analysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) readMedia(form *multipart.Form) (attach.Bundle, error) {
	var b attach.Bundle
	for _, fh := range form.File["images"] {
		p, err := s.readPart(fh)
		if err != nil {
			return b, err
		}
		b.Images = append(b.Images, p)
	}
	for _, field := range []string{"report", "audio"} {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		if len(files) > 1 {
			return b, fmt.Errorf("only one %s file is allowed", field)
		}
		p, err := s.readPart(files[0])
		if err != nil {
			return b, err
		}
		if field == "report" {
			b.Document = &p
		} else {
			b.Audio = &p
		}
	}
	return b, nil
}

func (s *Server) readPart(fh *multipart.FileHeader) (attach.Payload, error) {
	name := sanitizeFilename(fh.Filename)
	f, err := fh.Open()
	if err != nil {
		return attach.Payload{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return attach.Payload{}, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return attach.Payload{}, fmt.Errorf("%w: %s exceeds max size (%d bytes)", errTooLarge, name, s.cfg.MaxUploadBytes)
	}
	return attach.Payload{
		Name:     name,
		MIMEType: attach.DetectType(name, fh.Header.Get("Content-Type")),
		Data:     data,
	}, nil
}

// analysisError maps an Analyze failure to a status code. The body always
// carries the user-facing message.
func (s *Server) analysisError(w http.ResponseWriter, err error) {
	msg := consult.UserMessage(err)

	var verr *patient.ValidationError
	var apiErr *analysis.APIError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg, "field": verr.Field})
	case errors.Is(err, attach.ErrTooManyImages), errors.Is(err, attach.ErrUnsupportedType):
		jsonError(w, msg, http.StatusBadRequest)
	case errors.Is(err, consult.ErrAnalysisInProgress):
		jsonError(w, msg, http.StatusConflict)
	case errors.Is(err, analysis.ErrUnsupportedPayload):
		jsonError(w, msg, http.StatusUnprocessableEntity)
	case errors.Is(err, analysis.ErrMissingCredentials):
		jsonError(w, msg, http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		jsonError(w, msg, http.StatusGatewayTimeout)
	case errors.As(err, &apiErr), errors.Is(err, analysis.ErrEmptyResponse):
		jsonError(w, msg, http.StatusBadGateway)
	default:
		s.log.Error("analysis request failed", "error", err)
		jsonError(w, msg, http.StatusBadGateway)
	}
}

type markdownRequest struct {
	Markdown string `json:"markdown"`
	Language string `json:"language,omitempty"`
}

type interpretResponse struct {
	interpret.Result
	TriageLabel string                  `json:"triage_label"`
	Report      interpret.ReportContent `json:"report"`
}

// handleInterpret runs the response interpreter on markdown supplied by the
// caller, without calling a model.
func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMarkdown(w, r)
	if !ok {
		return
	}
	result := interpret.Interpret(req.Markdown)
	writeJSON(w, http.StatusOK, interpretResponse{
		Result:      result,
		TriageLabel: interpret.ClassifyResponse(req.Markdown).Label(),
		Report:      interpret.ExtractReport(req.Markdown),
	})
}

func (s *Server) decodeMarkdown(w http.ResponseWriter, r *http.Request) (markdownRequest, bool) {
	var req markdownRequest
	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	if err := decodeJSON(r.Body, &req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	if strings.TrimSpace(req.Markdown) == "" {
		jsonError(w, "markdown is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
