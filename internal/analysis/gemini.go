package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dgallion1/mediai/internal/attach"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-3-pro-preview"
)

// GeminiClient calls the Gemini generateContent REST API. Images, PDF
// reports and audio all go inline.
type GeminiClient struct {
	opts       Options
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(opts Options) *GeminiClient {
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	base := opts.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	return &GeminiClient{
		opts:       opts,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: opts.timeout()},
	}
}

func (c *GeminiClient) Provider() Provider { return ProviderGemini }
func (c *GeminiClient) Model() string      { return c.opts.Model }

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func geminiInline(p attach.Payload) geminiPart {
	return geminiPart{InlineData: &geminiInlineData{
		MIMEType: attach.BaseType(p.MIMEType),
		Data:     base64.StdEncoding.EncodeToString(p.Data),
	}}
}

// Analyze sends one generateContent request.
func (c *GeminiClient) Analyze(ctx context.Context, req Request) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingCredentials
	}

	parts := []geminiPart{{Text: BuildPrompt(req.Patient)}}
	for _, img := range req.Media.Images {
		parts = append(parts, geminiInline(img))
	}

	report, err := prepareReport(req.Media.Document, attach.IsInlineDocument, c.opts.ReportTokenBudget)
	if err != nil {
		return "", err
	}
	if report != nil {
		if report.Inline != nil {
			parts = append(parts, geminiPart{Text: "\n\n" + ReportNote}, geminiInline(*report.Inline))
		} else {
			parts = append(parts, geminiPart{Text: "\n\n" + ReportTextNote + "\n\n" + report.Text})
		}
	}

	if req.Media.HasAudio() {
		parts = append(parts, geminiPart{Text: "\n\n" + AudioNote}, geminiInline(*req.Media.Audio))
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: SystemInstruction}}},
		Contents:          []geminiContent{{Role: "user", Parts: parts}},
	}
	body.GenerationConfig.Temperature = c.opts.Temperature

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.opts.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.opts.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp geminiResponse
	decodeErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if decodeErr == nil && apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return "", &APIError{Provider: ProviderGemini, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}

	var sb strings.Builder
	if len(apiResp.Candidates) > 0 {
		for _, p := range apiResp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return responseText(sb.String())
}

// Close releases resources.
func (c *GeminiClient) Close() {
	c.httpClient.CloseIdleConnections()
}
