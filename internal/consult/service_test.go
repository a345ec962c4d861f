package consult

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/attach"
	"github.com/dgallion1/mediai/internal/history"
	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/dgallion1/mediai/internal/patient"
)

type stubClient struct {
	out     string
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (c *stubClient) Analyze(ctx context.Context, _ analysis.Request) (string, error) {
	c.calls++
	if c.started != nil {
		close(c.started)
		<-c.release
	}
	return c.out, c.err
}

func (c *stubClient) Provider() analysis.Provider { return analysis.ProviderGemini }
func (c *stubClient) Model() string               { return "stub" }

const response = `## 📋 Summary of Understanding
Adult with sore throat.

## 🚨 Triage & Urgency
Likely mild.

## ✅ What You Can Do Next
- Gargle warm salt water`

var validPatient = patient.Data{Age: "30", Symptoms: "sore throat"}

func fixedBuilder() history.Builder {
	return history.Builder{
		Now:   func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
		NewID: func() string { return "rec-1" },
	}
}

func TestAnalyze_Success(t *testing.T) {
	client := &stubClient{out: response}
	log := history.Open(context.Background(), nil, "", 0, nil)
	svc := NewService(client, Options{History: log, Builder: fixedBuilder()}, nil)

	out, err := svc.Analyze(context.Background(), analysis.Request{Patient: validPatient})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result.Card.Level != interpret.TriageMild {
		t.Errorf("expected mild card, got %q", out.Result.Card.Level)
	}
	if out.Record.ID != "rec-1" || out.Record.TriageLevel != interpret.LabelMild {
		t.Errorf("unexpected record %+v", out.Record)
	}
	if got, ok := log.Get("rec-1"); !ok || got.SummaryQuick != "Adult with sore throat." {
		t.Errorf("expected record in history, got %+v %v", got, ok)
	}
	if svc.Busy() {
		t.Error("expected service to be idle after analysis")
	}
}

func TestAnalyze_ValidationBeforeCall(t *testing.T) {
	client := &stubClient{out: response}
	svc := NewService(client, Options{}, nil)

	tests := []struct {
		name string
		req  analysis.Request
		want string
	}{
		{"missing age", analysis.Request{Patient: patient.Data{Symptoms: "x"}}, patient.MsgAgeRequired},
		{"missing symptoms", analysis.Request{Patient: patient.Data{Age: "3"}}, patient.MsgSymptomsRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.req)
			var verr *patient.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if UserMessage(err) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, UserMessage(err))
			}
		})
	}

	audioOnly := analysis.Request{
		Patient: patient.Data{Age: "3"},
		Media:   attach.Bundle{Audio: &attach.Payload{MIMEType: "audio/webm", Data: []byte{1}}},
	}
	if _, err := svc.Analyze(context.Background(), audioOnly); err != nil {
		t.Errorf("expected audio to stand in for symptoms, got %v", err)
	}

	tooMany := analysis.Request{Patient: validPatient, Media: attach.Bundle{Images: make([]attach.Payload, 4)}}
	if _, err := svc.Analyze(context.Background(), tooMany); !errors.Is(err, attach.ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("expected 1 model call, got %d", client.calls)
	}
}

func TestAnalyze_SingleInFlight(t *testing.T) {
	client := &stubClient{out: response, started: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(client, Options{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), analysis.Request{Patient: validPatient})
		done <- err
	}()
	<-client.started

	if !svc.Busy() {
		t.Error("expected service to be busy")
	}
	_, err := svc.Analyze(context.Background(), analysis.Request{Patient: validPatient})
	if !errors.Is(err, ErrAnalysisInProgress) {
		t.Errorf("expected ErrAnalysisInProgress, got %v", err)
	}

	close(client.release)
	if err := <-done; err != nil {
		t.Errorf("expected first analysis to succeed, got %v", err)
	}
}

func TestAnalyze_FailureNotRecorded(t *testing.T) {
	client := &stubClient{err: analysis.ErrEmptyResponse}
	log := history.Open(context.Background(), nil, "", 0, nil)
	svc := NewService(client, Options{History: log}, nil)

	_, err := svc.Analyze(context.Background(), analysis.Request{Patient: validPatient})
	if !errors.Is(err, analysis.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if log.Len() != 0 {
		t.Errorf("expected no history on failure, got %d", log.Len())
	}
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"credentials", fmt.Errorf("analyze: %w", analysis.ErrMissingCredentials), analysis.ErrMissingCredentials.Error()},
		{"empty", fmt.Errorf("analyze: %w", analysis.ErrEmptyResponse), "No response generated from the model."},
		{"busy", ErrAnalysisInProgress, ErrAnalysisInProgress.Error()},
		{"api", fmt.Errorf("analyze: %w", &analysis.APIError{StatusCode: 403, Message: "API key not valid"}), "API key not valid"},
		{"other", errors.New("dial tcp: connection refused"), "dial tcp: connection refused"},
		{"blank", emptyErr{}, FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
