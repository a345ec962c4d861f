package consult

import (
	"errors"

	"github.com/dgallion1/mediai/internal/analysis"
	"github.com/dgallion1/mediai/internal/patient"
)

// FallbackMessage is shown when a failure carries no message of its own.
const FallbackMessage = "Something went wrong. Please try again."

// UserMessage turns an Analyze failure into the text shown to the user.
// Known failures map to their own message; anything else is shown verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *patient.ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		return verr.Message
	}
	for _, known := range []error{ErrAnalysisInProgress, analysis.ErrMissingCredentials, analysis.ErrEmptyResponse} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	var apiErr *analysis.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
