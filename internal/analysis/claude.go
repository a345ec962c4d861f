package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dgallion1/mediai/internal/attach"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com"
	DefaultClaudeModel   = "claude-sonnet-4-5-20250929"
)

// Image types the Messages API accepts. HEIC/HEIF photos are rejected.
var claudeImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ClaudeClient calls the Anthropic Messages API. Audio is not supported;
// reports other than PDF and images are sent as extracted text.
type ClaudeClient struct {
	opts       Options
	baseURL    string
	httpClient *http.Client
}

func NewClaudeClient(opts Options) *ClaudeClient {
	if opts.Model == "" {
		opts.Model = DefaultClaudeModel
	}
	base := opts.BaseURL
	if base == "" {
		base = defaultClaudeBaseURL
	}
	return &ClaudeClient{
		opts:       opts,
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: opts.timeout()},
	}
}

func (c *ClaudeClient) Provider() Provider { return ProviderClaude }
func (c *ClaudeClient) Model() string      { return c.opts.Model }

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func anthropicMedia(kind string, p attach.Payload) anthropicBlock {
	return anthropicBlock{
		Type: kind,
		Source: &anthropicSource{
			Type:      "base64",
			MediaType: attach.BaseType(p.MIMEType),
			Data:      base64.StdEncoding.EncodeToString(p.Data),
		},
	}
}

// Analyze sends one Messages request.
func (c *ClaudeClient) Analyze(ctx context.Context, req Request) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingCredentials
	}
	if req.Media.HasAudio() {
		return "", fmt.Errorf("%w: audio recordings", ErrUnsupportedPayload)
	}

	blocks := []anthropicBlock{{Type: "text", Text: BuildPrompt(req.Patient)}}
	for _, img := range req.Media.Images {
		if !claudeImageTypes[attach.BaseType(img.MIMEType)] {
			return "", fmt.Errorf("%w: image type %s", ErrUnsupportedPayload, img.MIMEType)
		}
		blocks = append(blocks, anthropicMedia("image", img))
	}

	report, err := prepareReport(req.Media.Document, func(mt string) bool {
		return mt == "application/pdf" || claudeImageTypes[mt]
	}, c.opts.ReportTokenBudget)
	if err != nil {
		return "", err
	}
	if report != nil {
		if report.Inline != nil {
			kind := "image"
			if attach.BaseType(report.Inline.MIMEType) == "application/pdf" {
				kind = "document"
			}
			blocks = append(blocks, anthropicBlock{Type: "text", Text: ReportNote}, anthropicMedia(kind, *report.Inline))
		} else {
			blocks = append(blocks, anthropicBlock{Type: "text", Text: ReportTextNote + "\n\n" + report.Text})
		}
	}

	reqBody := anthropicRequest{
		Model:       c.opts.Model,
		MaxTokens:   8192,
		System:      SystemInstruction,
		Temperature: c.opts.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: blocks}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.opts.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp anthropicResponse
	decodeErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if decodeErr == nil && apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return "", &APIError{Provider: ProviderClaude, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return responseText(sb.String())
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}
