package attendance

import (
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// NoEmail is shown when a roster entry carries no email.
const NoEmail = "Not provided"

// StudentDetails identifies the student a lookup found.
type StudentDetails struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Batch      string `json:"batch"`
	Email      string `json:"email"`
}

// DayRecord is one recorded day for the student.
type DayRecord struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// Report is the outcome of a monthly lookup.
type Report struct {
	Student    StudentDetails `json:"student"`
	BatchID    string         `json:"batchId"`
	Month      string         `json:"month"`
	Days       []DayRecord    `json:"days"`
	Percentage float64        `json:"percentage"`
}

// Lookup finds the student holding rollNumber in any stored roster and
// collects their attendance for the calendar month of month, as written.
//
// Only days whose record has an entry for the student count as recorded.
// Percentage is present days over recorded days, 0 with nothing recorded.
func (s *Service) Lookup(rollNumber string, month time.Time) (Report, error) {
	student, batchID, err := s.findStudent(rollNumber)
	if err != nil {
		return Report{}, err
	}

	days := make([]DayRecord, 0)
	present := 0

	for _, day := range daysInMonth(month, s.loc) {
		marks, ok, err := s.schema.Attendance(batchID, day)
		if err != nil {
			return Report{}, err
		}
		if !ok {
			continue
		}

		mark, recorded := marks[student.ID]
		if !recorded {
			continue
		}
		if mark {
			present++
		}
		days = append(days, DayRecord{Date: day.Format(schema.DateLayout), Present: mark})
	}

	email := student.Email
	if email == "" {
		email = NoEmail
	}

	return Report{
		Student: StudentDetails{
			Name:       student.Name,
			RollNumber: student.RollNumber,
			Batch:      schema.DisplayName(batchID),
			Email:      email,
		},
		BatchID:    batchID,
		Month:      month.Format(MonthLayout),
		Days:       days,
		Percentage: percentage(present, len(days)),
	}, nil
}

// findStudent scans stored rosters in key order; the first match wins.
func (s *Service) findStudent(rollNumber string) (types.RosterEntry, string, error) {
	ids, err := s.schema.BatchIDs()
	if err != nil {
		return types.RosterEntry{}, "", err
	}

	for _, id := range ids {
		roster, err := s.schema.Roster(id)
		if err != nil {
			return types.RosterEntry{}, "", err
		}
		for _, entry := range roster {
			if entry.RollNumber == rollNumber {
				return entry, id, nil
			}
		}
	}

	return types.RosterEntry{}, "", apperr.ErrStudentNotFound
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part*100) / float64(whole)
}
