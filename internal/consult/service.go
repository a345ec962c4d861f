// Package consult runs one patient consultation end to end: input checks,
// the model call, interpretation of the response, and the history entry.
package consult

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/attach"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/interpret"
)

// ErrAnalysisInProgress is returned when an analysis is requested while
// another one is still outstanding.
var ErrAnalysisInProgress = errors.New("An analysis is already in progress. Please wait for it to finish.")

// Outcome is a successful consultation.
type Outcome struct {
	Markdown string           `json:"markdown"`
	Result   interpret.Result `json:"result"`
	Record   history.Record   `json:"record"`
	Duration time.Duration    `json:"duration_ns"`
}

// Service allows a single analysis in flight at a time.
type Service struct {
	client    analysis.Client
	history   *history.Log
	builder   history.Builder
	maxImages int
	log       *slog.Logger

	mu sync.Mutex
}

// Options configures a Service.
type Options struct {
	// History receives a record for every successful analysis. Nil skips
	// recording.
	History   *history.Log
	Builder   history.Builder
	MaxImages int
}

func NewService(client analysis.Client, opts Options, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = attach.DefaultMaxImages
	}
	return &Service{
		client:    client,
		history:   opts.History,
		builder:   opts.Builder,
		maxImages: opts.MaxImages,
		log:       log,
	}
}

// Busy reports whether an analysis is outstanding.
func (s *Service) Busy() bool {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return false
	}
	return true
}

// Analyze validates req, calls the model once and interprets the answer.
// Validation failures return *patient.ValidationError before any call is
// made. A history write failure is logged and does not fail the analysis.
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (*Outcome, error) {
	if err := req.Patient.Validate(req.Media.HasAudio()); err != nil {
		return nil, err
	}
	if err := req.Media.Validate(s.maxImages); err != nil {
		return nil, err
	}
	if !s.mu.TryLock() {
		return nil, ErrAnalysisInProgress
	}
	defer s.mu.Unlock()

	log := s.log.With("provider", s.client.Provider(), "model", s.client.Model(),
		"images", len(req.Media.Images), "document", req.Media.Document != nil, "audio", req.Media.HasAudio())

	start := time.Now()
	markdown, err := s.client.Analyze(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("analysis failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, fmt.Errorf("analyze: %w", err)
	}

	result := interpret.Interpret(markdown)
	rec := s.builder.Build(markdown, req.Patient)
	if s.history != nil {
		s.history.Append(ctx, rec)
	}

	log.Info("analysis complete",
		"record_id", rec.ID,
		"triage", result.Card.Level,
		"sections", len(result.Sections),
		"duration_ms", elapsed.Milliseconds(),
	)
	return &Outcome{Markdown: markdown, Result: result, Record: rec, Duration: elapsed}, nil
}
