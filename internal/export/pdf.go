package export

import (
	"fmt"
	"io"

	"github.com/dgallion1/mediai/internal/interpret"
	"github.com/go-pdf/fpdf"
)

const (
	margin     = 40.0
	bodySize   = 10.0
	lineHeight = 12.0
)

type rgb struct{ r, g, b int }

var (
	colorTeal  = rgb{13, 148, 136}
	colorRed   = rgb{220, 38, 38}
	colorGrey  = rgb{100, 100, 100}
	colorBlack = rgb{0, 0, 0}
	colorGreen = rgb{21, 128, 61}

	levelColors = map[interpret.TriageLevel]rgb{
		interpret.TriageEmergency: colorRed,
		interpret.TriageUrgent:    {234, 88, 12},
		interpret.TriageMild:      {22, 163, 74},
	}
)

// RenderPDF writes doc as an A4 PDF.
func RenderPDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("MediAI", false)
	if !doc.Generated.IsZero() {
		pdf.SetCreationDate(doc.Generated)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	width := pageWidth - 2*margin

	setColor := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
	separator := func() {
		pdf.Ln(10)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.5)
		y := pdf.GetY()
		pdf.Line(margin, y, pageWidth-margin, y)
		pdf.Ln(20)
	}
	body := func(text string) {
		pdf.SetFont("Helvetica", "", bodySize)
		setColor(colorBlack)
		pdf.MultiCell(width, lineHeight, tr(text), "", "L", false)
	}

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	setColor(colorTeal)
	pdf.CellFormat(width*0.65, 20, tr(doc.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	setColor(colorGrey)
	generated := "Generated: "
	if !doc.Generated.IsZero() {
		generated += doc.Generated.Local().Format("2006-01-02 15:04 MST")
	}
	pdf.CellFormat(width*0.35, 20, tr(generated), "", 1, "R", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 9)
	setColor(colorRed)
	pdf.MultiCell(width, 10, tr(doc.Disclaimer), "", "L", false)
	separator()

	pdf.SetFont("Helvetica", "B", 12)
	setColor(colorBlack)
	pdf.CellFormat(width, 15, "Patient Basics", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	for _, line := range doc.Basics {
		pdf.SetX(margin + 10)
		pdf.CellFormat(width-10, lineHeight, tr(interpret.BulletGlyph+" "+line), "", 1, "L", false, 0, "")
	}
	separator()

	pdf.SetFont("Helvetica", "B", 14)
	if c, ok := levelColors[doc.Level]; ok {
		setColor(c)
	} else {
		setColor(colorBlack)
	}
	pdf.CellFormat(width, 20, tr("Triage Level: "+doc.TriageLabel), "", 1, "L", false, 0, "")

	for i, b := range doc.Blocks {
		if b.Title == BlockTriage {
			body(b.Body)
			continue
		}
		if i > 0 {
			separator()
		}
		pdf.SetFont("Helvetica", "B", 12)
		if b.Title == BlockAyurveda {
			setColor(colorGreen)
		} else {
			setColor(colorBlack)
		}
		pdf.CellFormat(width, 15, tr(b.Title), "", 1, "L", false, 0, "")
		body(b.Body)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
