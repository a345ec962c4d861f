// Package analysis calls a generative model with a patient's intake and
// media and returns the model's markdown response.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/mediai/internal/attach"
	"github.com/dgallion1/mediai/internal/patient"
)

// Provider names a model vendor.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// Client produces one markdown analysis per call. Implementations never
// retry.
type Client interface {
	Analyze(ctx context.Context, req Request) (string, error)
	Provider() Provider
	Model() string
}

// Request is everything sent to the model for one analysis.
type Request struct {
	Patient patient.Data
	Media   attach.Bundle
}

// Options configures a provider client.
type Options struct {
	APIKey      string
	Model       string
	Temperature float64
	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string
	Timeout time.Duration
	// ReportTokenBudget caps report text sent in place of a document the
	// provider cannot take inline. Zero disables the cap.
	ReportTokenBudget int
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 120 * time.Second
}

// reportPart is a report document prepared for a provider: either passed
// through inline or converted to text.
type reportPart struct {
	Inline *attach.Payload
	Text   string
}

// prepareReport passes the report through when inline(mimeType) accepts it
// and converts it to text otherwise.
func prepareReport(doc *attach.Payload, inline func(string) bool, budget int) (*reportPart, error) {
	if doc == nil {
		return nil, nil
	}
	if inline(attach.BaseType(doc.MIMEType)) {
		return &reportPart{Inline: doc}, nil
	}
	text, err := attach.ExtractText(*doc)
	if err != nil {
		return nil, fmt.Errorf("%w: report %s: %v", ErrUnsupportedPayload, doc.Name, err)
	}
	return &reportPart{Text: attach.Truncate(text, budget)}, nil
}

// responseText maps blank model output to ErrEmptyResponse.
func responseText(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyResponse
	}
	return s, nil
}
