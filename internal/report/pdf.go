package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

var (
	tableHeader  = []string{"Roll Number", "Name", "Status"}
	columnWidths = []float64{50, 90, 50}
)

const (
	rowHeight    = 8.0
	headerHeight = 9.0
)

// WritePDF renders s as an A4 portrait document. The table continues onto
// new pages as needed, repeating its header row on each.
func WritePDF(w io.Writer, s Summary) error {
	pdf := renderPDF(s)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("WritePDF: output: %w", err)
	}
	return nil
}

func renderPDF(s Summary) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(s.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Core fonts are cp1252; names may carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(s.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr("Batch: "+s.Batch), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Date: "+s.DateText(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.CellFormat(0, 7, "Attendance Statistics:", "", 1, "L", false, 0, "")
	stats := []string{
		"Present: " + strconv.Itoa(s.Present) + " students",
		"Absent: " + strconv.Itoa(s.Absent) + " students",
		"Attendance Rate: " + s.RateText(),
	}
	for _, line := range stats {
		pdf.CellFormat(10, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	limit := pageHeight - bottom - 10

	drawTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 245)

	for i, row := range s.Rows {
		if pdf.GetY()+rowHeight > limit {
			pdf.AddPage()
			drawTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFillColor(245, 245, 245)
		}

		fill := i%2 == 1
		cells := []string{row.RollNumber, tr(row.Name), row.Status}
		for j, text := range cells {
			pdf.CellFormat(columnWidths[j], rowHeight, text, "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(63, 81, 181)
	pdf.SetTextColor(255, 255, 255)
	for i, title := range tableHeader {
		pdf.CellFormat(columnWidths[i], headerHeight, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
