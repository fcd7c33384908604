package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// Fixed letterhead pinned to the bottom margin of every page
var letterheadLines = []string{
	"Secretaria Municipal de Educação",
	"Rua Afonso Cavalcanti, 455 - Cidade Nova - Rio de Janeiro/RJ - CEP 20211-110",
	"Tel: (21) 2976-2000 - atendimento@declarafacil.rio.gov.br",
}

const (
	titleTopOffset = 40.0
	bodyIndent     = 25.0
	bodyLineHeight = 8.0
	footerGap      = 20.0
)

// RenderPDF produces the declaration document as an in-memory PDF. The
// body is laid out as justified paragraphs, one per newline-delimited
// line; the footer lines are centered. Returns ErrEmptyDocument when the
// output buffer ends up empty.
func RenderPDF(title, body, footer string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Letterhead sits inside the bottom margin, so page breaking is
	// suppressed while it is placed
	pdf.SetFooterFunc(func() {
		pdf.SetY(-30)
		pdf.SetFont("Arial", "", 8)
		for _, line := range letterheadLines {
			pdf.CellFormat(0, 4, tr(line), "", 1, "C", false, 0, "")
		}
	})
	pdf.SetAutoPageBreak(true, 35)
	pdf.AddPage()

	// Title block
	pdf.SetY(titleTopOffset)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Body block, one justified paragraph per line
	pdf.SetFont("Arial", "", 12)
	for _, paragraph := range strings.Split(body, "\n") {
		pdf.SetX(pdf.GetX() + bodyIndent)
		pdf.MultiCell(0, bodyLineHeight, tr(paragraph), "", "J", false)
		pdf.Ln(2)
	}

	// Footer block, centered
	pdf.Ln(footerGap)
	for _, line := range strings.Split(footer, "\n") {
		pdf.CellFormat(0, 6, tr(line), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}
	if buf.Len() == 0 {
		return nil, models.ErrEmptyDocument
	}

	return buf.Bytes(), nil
}
