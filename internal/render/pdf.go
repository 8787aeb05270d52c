package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"ketf/internal"
)

const PDFFileName = "report.pdf"

// PDF renders a report document on A4 pages with the core Helvetica font.
type PDF struct {
	FileName string
}

func NewPDF() *PDF {
	return &PDF{FileName: PDFFileName}
}

func (r *PDF) Render(ctx context.Context, doc internal.ReportDocument) (internal.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return internal.Attachment{}, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("ketf", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.AddPage()

	for _, b := range doc.Blocks {
		switch b.Kind {
		case internal.BlockTitle:
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 9, tr(b.Text), "", "C", false)
			pdf.Ln(4)
		case internal.BlockSection:
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, tr(b.Text), "", "L", false)
			pdf.Ln(1)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(b.Text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return internal.Attachment{}, fmt.Errorf("write pdf: %w", err)
	}
	return internal.Attachment{FileName: r.fileName(), ContentType: "application/pdf", Content: buf.Bytes()}, nil
}

func (r *PDF) fileName() string {
	if r.FileName == "" {
		return PDFFileName
	}
	return r.FileName
}
