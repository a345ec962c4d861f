package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/config"
	"github.com/dgallion1/mediai/internal/consult"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/speech"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the services the HTTP API exposes.
type Deps struct {
	Consult *consult.Service
	History *history.Log
	Client  analysis.Client
	Stats   *analysis.LLMStats
	Speech  speech.Synthesizer
}

// Server is the HTTP API server for mediai.
type Server struct {
	router  chi.Router
	consult *consult.Service
	history *history.Log
	client  analysis.Client
	stats   *analysis.LLMStats
	speech  speech.Synthesizer
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	if deps.Speech == nil {
		deps.Speech = speech.Nop{}
	}
	s := &Server{
		consult: deps.Consult,
		history: deps.History,
		client:  deps.Client,
		stats:   deps.Stats,
		speech:  deps.Speech,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Patient endpoints.
	r.Get("/health", s.handleHealth)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Post("/api/interpret", s.handleInterpret)
	r.Post("/api/speech", s.handleSpeechText)
	r.Post("/api/speech/audio", s.handleSpeechAudio)

	// Doctor endpoints.
	r.Group(func(r chi.Router) {
		r.Use(DoctorAuth(s.cfg.DoctorAPIKey, s.log))

		r.Get("/api/history", s.handleListHistory)
		r.Get("/api/history/{id}", s.handleGetRecord)
		r.Get("/api/history/{id}/report.pdf", s.handleRecordPDF)
		r.Get("/api/history/{id}/report.html", s.handleRecordHTML)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
