package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
)

func writePDF(w io.Writer, t table) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	colWidth := pageWidth - 2*pdfMargin
	if len(t.headers) > 0 {
		colWidth /= float64(len(t.headers))
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range t.headers {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(t.title), "", 1, "L", false, 0, "")
		header()
	})
	pdf.AddPage()

	for _, row := range t.rows {
		for _, v := range row {
			align := "L"
			text := cellText(v)
			if d, ok := v.(decimal.Decimal); ok {
				align = "R"
				text = d.StringFixed(2)
			}
			pdf.CellFormat(colWidth, pdfRowHeight, fit(pdf, tr(text), colWidth-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// fit trims s until it fits in width at the current font
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
