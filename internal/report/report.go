// Package report turns one day's attendance for a batch into an exported
// document.
//
// Build computes the summary; WritePDF and WriteCSV render it. Rows keep
// the roster's order. Filename gives the download name:
//
//	attendance-CSE-2024-2024-05-01.pdf
package report

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// Title heads every exported report.
const Title = "Attendance Report"

// DisplayDateLayout is the generation date as printed in the document.
const DisplayDateLayout = "January 02, 2006"

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Format selects a renderer.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

var whitespace = regexp.MustCompile(`\s+`)

// Row is one student line of the table.
type Row struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

// Summary is everything a rendered report shows.
type Summary struct {
	Title       string    `json:"title"`
	Batch       string    `json:"batch"`
	GeneratedOn time.Time `json:"generatedOn"`
	Present     int       `json:"present"`
	Absent      int       `json:"absent"`
	Rate        float64   `json:"rate"`
	Rows        []Row     `json:"rows"`
}

// Build summarises marks against the batch roster. A student counts as
// present only when marks holds true for their id; everyone else on the
// roster is absent. Rate is present over roster size, 0 for an empty
// roster.
func Build(batchName string, roster []types.RosterEntry, marks types.Marks, generatedOn time.Time) Summary {
	rows := make([]Row, 0, len(roster))
	present := 0

	for _, student := range roster {
		status := StatusAbsent
		if marks[student.ID] {
			status = StatusPresent
			present++
		}
		rows = append(rows, Row{
			RollNumber: student.RollNumber,
			Name:       student.Name,
			Status:     status,
		})
	}

	var rate float64
	if len(roster) > 0 {
		rate = float64(present*100) / float64(len(roster))
	}

	return Summary{
		Title:       Title,
		Batch:       batchName,
		GeneratedOn: generatedOn,
		Present:     present,
		Absent:      len(roster) - present,
		Rate:        rate,
		Rows:        rows,
	}
}

// RateText is the attendance rate to one decimal, e.g. "40.0%".
func (s Summary) RateText() string {
	return fmt.Sprintf("%.1f%%", s.Rate)
}

// DateText is the generation date as printed, e.g. "May 01, 2024".
func (s Summary) DateText() string {
	return s.GeneratedOn.Format(DisplayDateLayout)
}

// Filename is attendance-<batch name with dashes>-<yyyy-MM-dd>.<ext>.
func Filename(batchName string, on time.Time, f Format) string {
	return fmt.Sprintf("attendance-%s-%s.%s",
		whitespace.ReplaceAllString(batchName, "-"),
		on.Format(schema.DateLayout),
		f,
	)
}

// ParseFormat accepts "pdf" or "csv"; empty means pdf.
func ParseFormat(v string) (Format, error) {
	switch Format(v) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", apperr.InvalidInput("format must be pdf or csv")
	}
}

// ContentType is the MIME type of a rendered format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// Write renders s in format f.
func Write(w io.Writer, s Summary, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatPDF:
		return WritePDF(w, s)
	default:
		return apperr.InvalidInput("format must be pdf or csv")
	}
}
