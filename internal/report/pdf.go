package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"fintrack/internal/core"
)

// PDFRenderer lays the bundle out on A4 portrait pages.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Filename(key core.MonthKey) string {
	return fmt.Sprintf("financial-summary-%s.pdf", key)
}

const (
	pdfMargin      = 20.0
	pdfBottomSpace = 30.0
)

func (PDFRenderer) Render(w io.Writer, b Bundle) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, monthLine(b.MonthKey), "", 1, "C", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, "Financial Summary")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, l := range Summary(b) {
		pdf.Cell(0, 6, tr(lineText(l)))
		pdf.Ln(6)
	}
	pdf.Ln(9)

	for _, s := range Sections(b) {
		if pdf.GetY() > pageHeight-pdfBottomSpace {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 8, tr(sectionHeading(s)))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		for _, l := range s.Lines {
			if pdf.GetY() > pageHeight-pdfMargin {
				pdf.AddPage()
			}
			pdf.SetX(pdfMargin + 5)
			pdf.Cell(0, 5, tr(lineText(l)))
			pdf.Ln(5)
		}
		pdf.Ln(5)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}
