package analysis

import (
	"fmt"
	"strings"
)

// Providers lists the supported providers.
var Providers = []Provider{ProviderGemini, ProviderClaude, ProviderOpenAI}

// ParseProvider normalizes a provider name. Empty selects Gemini.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gemini", "google":
		return ProviderGemini, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	case "openai":
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s (supported: gemini, claude, openai)", s)
	}
}

// New creates the client for a provider. A missing API key is not an
// error here; the client reports ErrMissingCredentials when called.
func New(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(opts), nil
	case ProviderClaude:
		return NewClaudeClient(opts), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
