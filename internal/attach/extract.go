package attach

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Extractor converts a report document into plain text. Headings found in
// the source are kept as "#" lines so the model still sees the structure.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// ForType returns the extractor for a MIME type.
func ForType(mimeType string) (Extractor, error) {
	switch BaseType(mimeType) {
	case "text/plain":
		return &TextExtractor{}, nil
	case "text/markdown":
		return &MarkdownExtractor{}, nil
	case "text/csv":
		return &CSVExtractor{}, nil
	case "text/html":
		return &HTMLExtractor{}, nil
	case "application/pdf":
		return &PDFExtractor{FallbackPdftotext: true}, nil
	case MIMEDocx:
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported document type: %s", mimeType)
	}
}

// ExtractText runs the matching extractor over a payload.
func ExtractText(p Payload) (string, error) {
	ex, err := ForType(p.MIMEType)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(bytes.NewReader(p.Data))
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", p.Name, err)
	}
	return text, nil
}

// textBuilder accumulates headings and paragraphs separated by blank lines.
type textBuilder struct {
	buf strings.Builder
}

func (b *textBuilder) heading(level int, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	if level < 1 {
		level = 1
	}
	b.block(strings.Repeat("#", level) + " " + title)
}

func (b *textBuilder) para(text string) {
	if text = strings.TrimSpace(text); text != "" {
		b.block(text)
	}
}

func (b *textBuilder) block(s string) {
	if b.buf.Len() > 0 {
		b.buf.WriteString("\n\n")
	}
	b.buf.WriteString(s)
}

func (b *textBuilder) String() string {
	return b.buf.String()
}
