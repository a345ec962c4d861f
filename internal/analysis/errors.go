package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means the provider has no API key configured.
	ErrMissingCredentials = errors.New("API Key is missing. Please check your environment configuration.")

	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("No response generated from the model.")

	// ErrUnsupportedPayload means the provider cannot accept an attachment
	// and it could not be converted to text.
	ErrUnsupportedPayload = errors.New("attachment type not supported by this provider")
)

// APIError is a non-success response from a provider.
type APIError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Provider, e.StatusCode, truncate(e.Message, 300))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
