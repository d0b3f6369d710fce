package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

var generated = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

func fiveStudents() ([]types.RosterEntry, types.Marks) {
	roster := []types.RosterEntry{
		{ID: "u1", RollNumber: "CSE001", Name: "Asha"},
		{ID: "u2", RollNumber: "CSE002", Name: "Ravi"},
		{ID: "u3", RollNumber: "CSE003", Name: "Kiran"},
		{ID: "u4", RollNumber: "CSE004", Name: "Meera"},
		{ID: "u5", RollNumber: "CSE005", Name: "José"},
	}
	marks := types.Marks{"u2": true, "u4": true, "u5": false}
	return roster, marks
}

func TestBuild(t *testing.T) {
	roster, marks := fiveStudents()

	s := Build("CSE 2024", roster, marks, generated)

	assert.Equal(t, Title, s.Title)
	assert.Equal(t, "CSE 2024", s.Batch)
	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 3, s.Absent)
	assert.Equal(t, 40.0, s.Rate)
	assert.Equal(t, "40.0%", s.RateText())
	assert.Equal(t, "May 01, 2024", s.DateText())
	assert.Equal(t, []Row{
		{"CSE001", "Asha", StatusAbsent},
		{"CSE002", "Ravi", StatusPresent},
		{"CSE003", "Kiran", StatusAbsent},
		{"CSE004", "Meera", StatusPresent},
		{"CSE005", "José", StatusAbsent},
	}, s.Rows)
}

func TestBuildEmptyRoster(t *testing.T) {
	s := Build("ECE 2024", nil, types.Marks{"ghost": true}, generated)

	assert.Equal(t, 0, s.Present)
	assert.Equal(t, 0, s.Absent)
	assert.Equal(t, "0.0%", s.RateText())
	assert.Empty(t, s.Rows)
}

func TestRateOneDecimal(t *testing.T) {
	roster := []types.RosterEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	s := Build("X", roster, types.Marks{"a": true}, generated)

	assert.Equal(t, "33.3%", s.RateText())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "attendance-CSE-2024-2024-05-01.pdf", Filename("CSE 2024", generated, FormatPDF))
	assert.Equal(t, "attendance-MECH-A-2025-2024-05-01.csv", Filename("MECH  A 2025", generated, FormatCSV))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())

	_, err = ParseFormat("docx")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestWriteCSV(t *testing.T) {
	roster, marks := fiveStudents()
	s := Build("CSE 2024", roster, marks, generated)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, FormatCSV))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte("\xef\xbb\xbf")), "output starts with a UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(out[3:]))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Attendance Report"},
		{"Batch", "CSE 2024"},
		{"Date", "May 01, 2024"},
		{"Present", "2"},
		{"Absent", "3"},
		{"Attendance Rate", "40.0%"},
		{"Roll Number", "Name", "Status"},
		{"CSE001", "Asha", "Absent"},
		{"CSE002", "Ravi", "Present"},
		{"CSE003", "Kiran", "Absent"},
		{"CSE004", "Meera", "Present"},
		{"CSE005", "José", "Absent"},
	}, records)
}

func TestWritePDF(t *testing.T) {
	roster, marks := fiveStudents()
	s := Build("CSE 2024", roster, marks, generated)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s, FormatPDF))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Equal(t, 1, renderPDF(s).PageCount())
}

func TestPDFPaginates(t *testing.T) {
	roster := make([]types.RosterEntry, 0, 80)
	for i := 0; i < 80; i++ {
		roster = append(roster, types.RosterEntry{
			ID:         fmt.Sprintf("u%d", i),
			RollNumber: fmt.Sprintf("CSE%03d", i),
			Name:       fmt.Sprintf("Student %d", i),
		})
	}
	s := Build("CSE 2024", roster, types.Marks{}, generated)

	pdf := renderPDF(s)
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), 1)
}
