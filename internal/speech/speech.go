// Package speech turns the speakable summary of an analysis into audio
// through an injected synthesizer.
package speech

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dgallion1/mediai/internal/patient"
)

// ErrUnavailable is returned when no synthesizer is present on the host.
var ErrUnavailable = errors.New("speech synthesis is not available")

var languageTags = map[patient.Language]string{
	patient.LanguageEnglish:   "en-US",
	patient.LanguageHindi:     "hi-IN",
	patient.LanguageKannada:   "kn-IN",
	patient.LanguageTelugu:    "te-IN",
	patient.LanguageTamil:     "ta-IN",
	patient.LanguageMarathi:   "mr-IN",
	patient.LanguageBengali:   "bn-IN",
	patient.LanguageGujarati:  "gu-IN",
	patient.LanguageMalayalam: "ml-IN",
	patient.LanguageOdia:      "or-IN",
}

// LanguageTag maps a preferred language to its BCP-47 tag. Auto and unknown
// languages map to "" so the synthesizer picks its default voice.
func LanguageTag(l patient.Language) string {
	return languageTags[l]
}

// Synthesizer renders text to audio.
type Synthesizer interface {
	// Available reports whether synthesis can run on this host.
	Available() bool
	// Synthesize writes audio for text to w. tag is a BCP-47 language tag
	// or "" for the default voice.
	Synthesize(ctx context.Context, text, tag string, w io.Writer) error
	// ContentType is the MIME type of the audio written by Synthesize.
	ContentType() string
}

// Nop is the synthesizer used when none is configured.
type Nop struct{}

func (Nop) Available() bool     { return false }
func (Nop) ContentType() string { return "" }

func (Nop) Synthesize(context.Context, string, string, io.Writer) error {
	return ErrUnavailable
}

// voiceFor converts a BCP-47 tag to an espeak-ng voice name.
func voiceFor(tag string) string {
	tag = strings.ToLower(tag)
	if tag == "en-us" {
		return tag
	}
	if i := strings.IndexByte(tag, '-'); i > 0 {
		return tag[:i]
	}
	return tag
}
