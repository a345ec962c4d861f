// Package attach models the media that accompanies an intake submission:
// symptom photos, a lab report, and a voice recording. It enforces the
// per-kind MIME allow-lists and turns report documents into plain text for
// providers that cannot take them inline.
package attach

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Payload is one uploaded file.
type Payload struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Size returns the payload length in bytes.
func (p Payload) Size() int { return len(p.Data) }

// Kind is the role a payload plays in a submission.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindAudio    Kind = "audio"
)

// DefaultMaxImages bounds symptom photos per submission.
const DefaultMaxImages = 3

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// Report documents a model accepts inline.
var inlineDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Report documents that are converted to text before sending.
var textDocumentTypes = map[string]bool{
	MIMEDocx:        true,
	"text/html":     true,
	"text/markdown": true,
	"text/csv":      true,
	"text/plain":    true,
}

// MIMEDocx is the Office Open XML word-processing type.
const MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Allowed reports whether mimeType is accepted for kind.
func Allowed(kind Kind, mimeType string) bool {
	mt := BaseType(mimeType)
	switch kind {
	case KindImage:
		return imageTypes[mt]
	case KindDocument:
		return inlineDocumentTypes[mt] || textDocumentTypes[mt]
	case KindAudio:
		return strings.HasPrefix(mt, "audio/")
	}
	return false
}

// IsInlineDocument reports whether a report can be sent to a model as-is.
func IsInlineDocument(mimeType string) bool {
	return inlineDocumentTypes[BaseType(mimeType)]
}

// BaseType lowercases a MIME type and drops parameters.
func BaseType(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// DetectType resolves a payload's MIME type from the declared value, falling
// back to the file extension when the declared type is empty or generic.
func DetectType(name, declared string) string {
	mt := BaseType(declared)
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".docx":
		return MIMEDocx
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return BaseType(byExt)
	}
	return mt
}

// Bundle is the media of one submission.
type Bundle struct {
	Images   []Payload
	Document *Payload
	Audio    *Payload
}

// HasAudio reports whether a non-empty recording is attached.
func (b Bundle) HasAudio() bool {
	return b.Audio != nil && len(b.Audio.Data) > 0
}

var (
	// ErrTooManyImages is returned when a bundle exceeds the photo limit.
	ErrTooManyImages = errors.New("too many symptom images")
	// ErrUnsupportedType is returned for a payload outside its allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Validate checks the photo count and each payload's MIME type.
func (b Bundle) Validate(maxImages int) error {
	if maxImages > 0 && len(b.Images) > maxImages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(b.Images), maxImages)
	}
	for _, img := range b.Images {
		if !Allowed(KindImage, img.MIMEType) {
			return fmt.Errorf("%w: image %s (%s)", ErrUnsupportedType, img.Name, img.MIMEType)
		}
	}
	if b.Document != nil && !Allowed(KindDocument, b.Document.MIMEType) {
		return fmt.Errorf("%w: report %s (%s)", ErrUnsupportedType, b.Document.Name, b.Document.MIMEType)
	}
	if b.Audio != nil && !Allowed(KindAudio, b.Audio.MIMEType) {
		return fmt.Errorf("%w: audio (%s)", ErrUnsupportedType, b.Audio.MIMEType)
	}
	return nil
}
