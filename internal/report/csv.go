package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteCSV renders s as comma-separated text with a UTF-8 byte order mark.
// A short summary block comes first, then a blank line, then the table.
func WriteCSV(w io.Writer, s Summary) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)

	records := [][]string{
		{s.Title},
		{"Batch", s.Batch},
		{"Date", s.DateText()},
		{"Present", strconv.Itoa(s.Present)},
		{"Absent", strconv.Itoa(s.Absent)},
		{"Attendance Rate", s.RateText()},
		{},
		tableHeader,
	}
	for _, row := range s.Rows {
		records = append(records, []string{row.RollNumber, row.Name, row.Status})
	}

	// WriteAll flushes and reports the first write error.
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("WriteCSV: write: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("WriteCSV: close: %w", err)
	}
	return nil
}
