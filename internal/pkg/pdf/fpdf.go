package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// FPDFRenderer draws certificates directly with fpdf core fonts.
type FPDFRenderer struct {
	compress bool
}

// NewFPDFRenderer creates an fpdf renderer. Disabling compression leaves the
// page content stream readable, which tests rely on.
func NewFPDFRenderer(compress bool) *FPDFRenderer {
	return &FPDFRenderer{compress: compress}
}

// Render implements Renderer.
func (r *FPDFRenderer) Render(ctx context.Context, data CertificateData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetCompression(r.compress)
	doc.SetTitle(TitleLine, true)
	doc.SetCreationDate(data.IssuedAt)
	doc.SetModificationDate(data.IssuedAt)
	// Core fonts are cp1252; translate so accented names print correctly.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	_, pageHeight := doc.GetPageSize()
	doc.SetY(pageHeight / 4)

	line := func(style string, size float64, text string, gap float64) {
		doc.SetFont("Helvetica", style, size)
		doc.CellFormat(0, size*1.4, tr(text), "", 1, "C", false, 0, "")
		doc.Ln(gap)
	}

	line("B", 28, TitleLine, 36)
	line("", 16, data.StudentLine(), 8)
	line("", 16, CompletionLine, 8)
	line("B", 20, data.CourseTitle, 36)
	line("I", 12, data.DateLine(), 0)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
