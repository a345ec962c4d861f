package attach

import (
	"errors"
	"strings"
	"testing"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		kind Kind
		mime string
		want bool
	}{
		{KindImage, "image/jpeg", true},
		{KindImage, "image/HEIC", true},
		{KindImage, "image/gif", false},
		{KindImage, "application/pdf", false},
		{KindDocument, "application/pdf", true},
		{KindDocument, "image/png", true},
		{KindDocument, "image/webp", false},
		{KindDocument, "text/csv; charset=utf-8", true},
		{KindDocument, MIMEDocx, true},
		{KindAudio, "audio/webm", true},
		{KindAudio, "audio/mpeg", true},
		{KindAudio, "video/mp4", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+" "+tt.mime, func(t *testing.T) {
			if got := Allowed(tt.kind, tt.mime); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDetectType(t *testing.T) {
	if got := DetectType("labs.md", ""); got != "text/markdown" {
		t.Errorf("expected text/markdown, got %q", got)
	}
	if got := DetectType("labs.docx", "application/octet-stream"); got != MIMEDocx {
		t.Errorf("expected docx type, got %q", got)
	}
	if got := DetectType("x.bin", "Image/PNG"); got != "image/png" {
		t.Errorf("expected image/png, got %q", got)
	}
}

func TestBundleValidate(t *testing.T) {
	img := Payload{Name: "a.jpg", MIMEType: "image/jpeg", Data: []byte{1}}

	b := Bundle{Images: []Payload{img, img, img, img}}
	if err := b.Validate(DefaultMaxImages); !errors.Is(err, ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}

	b = Bundle{Images: []Payload{img}, Document: &Payload{Name: "r.exe", MIMEType: "application/x-msdownload"}}
	if err := b.Validate(DefaultMaxImages); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}

	b = Bundle{Images: []Payload{img}, Audio: &Payload{MIMEType: "audio/webm", Data: []byte{1}}}
	if err := b.Validate(DefaultMaxImages); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !b.HasAudio() {
		t.Error("expected HasAudio")
	}
}

func TestForType_Unsupported(t *testing.T) {
	if _, err := ForType("application/zip"); err == nil {
		t.Error("expected error")
	}
}

func TestTextExtractor(t *testing.T) {
	input := "Hemoglobin 11.2 g/dL\nWBC 12,000\n\n\n\nImpression: mild anemia"
	got, err := (&TextExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Hemoglobin 11.2 g/dL\nWBC 12,000\n\nImpression: mild anemia"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCSVExtractor(t *testing.T) {
	input := "test,value,unit\nHbA1c,7.1,%\nLDL,130,mg/dL\n"
	got, err := (&CSVExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Columns: test, value, unit\n\ntest: HbA1c, value: 7.1, unit: %\ntest: LDL, value: 130, unit: mg/dL"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLExtractor(t *testing.T) {
	input := `<html><head><title>Lab Report</title><script>var x;</script></head>
<body><h2>Results</h2><table><tr><th>Test</th><th>Value</th></tr><tr><td>TSH</td><td>5.9</td></tr></table>
<p>Follow up   in two weeks.</p></body></html>`
	got, err := (&HTMLExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Lab Report\n\n## Results\n\nTest | Value\n\nTSH | 5.9\n\nFollow up in two weeks."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownExtractor(t *testing.T) {
	input := "# Discharge Notes\n\nPatient was **stable**.\n\n## Medications\n\n- Metformin 500mg\n- Aspirin\n"
	got, err := (&MarkdownExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "# Discharge Notes\n\nPatient was stable.\n\n## Medications\n\n- Metformin 500mg\n- Aspirin"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractText_WrapsErrors(t *testing.T) {
	_, err := ExtractText(Payload{Name: "x.zip", MIMEType: "application/zip"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTruncate(t *testing.T) {
	text := strings.Repeat("word ", 100)
	if got := Truncate(text, 0); got != text {
		t.Error("expected zero budget to disable truncation")
	}
	if got := Truncate("short text", 100); got != "short text" {
		t.Errorf("expected untouched text, got %q", got)
	}

	got := Truncate("one two\nthree four five six", 4)
	want := "one two\nthree\n" + TruncationNote
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 for empty text")
	}
	if got := EstimateTokens("a"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := EstimateTokens("two words"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}
