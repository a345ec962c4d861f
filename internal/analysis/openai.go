package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dgallion1/mediai/internal/attach"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = "gpt-4o"

var openAIImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// OpenAIClient calls the chat completions API through go-openai. Photos go
// as data URLs; every report is sent as extracted text; audio is not
// supported.
type OpenAIClient struct {
	client *openai.Client
	opts   Options
}

func NewOpenAIClient(opts Options) *OpenAIClient {
	if opts.Model == "" {
		opts.Model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), opts: opts}
}

func (c *OpenAIClient) Provider() Provider { return ProviderOpenAI }
func (c *OpenAIClient) Model() string      { return c.opts.Model }

func dataURL(p attach.Payload) string {
	return "data:" + attach.BaseType(p.MIMEType) + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Analyze sends one chat completion request.
func (c *OpenAIClient) Analyze(ctx context.Context, req Request) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrMissingCredentials
	}
	if req.Media.HasAudio() {
		return "", fmt.Errorf("%w: audio recordings", ErrUnsupportedPayload)
	}

	parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: BuildPrompt(req.Patient)}}
	for _, img := range req.Media.Images {
		if !openAIImageTypes[attach.BaseType(img.MIMEType)] {
			return "", fmt.Errorf("%w: image type %s", ErrUnsupportedPayload, img.MIMEType)
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURL(img), Detail: openai.ImageURLDetailAuto},
		})
	}

	report, err := prepareReport(req.Media.Document, func(mt string) bool {
		return openAIImageTypes[mt]
	}, c.opts.ReportTokenBudget)
	if err != nil {
		return "", err
	}
	if report != nil {
		if report.Inline != nil {
			parts = append(parts,
				openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: ReportNote},
				openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL(*report.Inline), Detail: openai.ImageURLDetailHigh},
				})
		} else {
			parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: ReportTextNote + "\n\n" + report.Text})
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: float32(c.opts.Temperature),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &APIError{Provider: ProviderOpenAI, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
		}
		return "", fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return responseText(resp.Choices[0].Message.Content)
}
