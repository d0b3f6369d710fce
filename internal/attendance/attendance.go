// Package attendance covers the teacher side of the system (batches,
// rosters, daily marking) and the per-student monthly lookup.
//
// A day's attendance is one record per batch per calendar date. Submitting
// again for the same batch and date replaces the record; nothing is merged.
// Dates are calendar days in the service's location, time.Local unless
// WithLocation says otherwise.
package attendance

import (
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/storage"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// MonthLayout is the format of a lookup month, e.g. "2024-05".
const MonthLayout = "2006-01"

// Service runs the teacher and tracker flows against a store.
type Service struct {
	schema  *schema.Schema
	catalog []string
	now     func() time.Time
	loc     *time.Location
}

// Option customises a Service.
type Option func(*Service)

// WithLocation sets the time zone whose calendar attendance is filed under.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService builds the service. catalog holds the batch names that are
// always listed, in display order.
func NewService(store storage.Store, catalog []string, now func() time.Time, opts ...Option) *Service {
	if now == nil {
		now = time.Now
	}
	s := &Service{schema: schema.New(store), catalog: catalog, now: now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current calendar day in the service's location, as
// midnight in that location.
func (s *Service) Today() time.Time {
	return s.calendarDay(s.now().In(s.loc))
}

// Batches lists the configured catalog followed by any other batch that
// has a stored roster, each with its students.
func (s *Service) Batches() ([]types.Batch, error) {
	seen := make(map[string]bool)
	out := make([]types.Batch, 0, len(s.catalog))

	for _, name := range s.catalog {
		id := schema.BatchID(name)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		b, err := s.batch(id, name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	ids, err := s.schema.BatchIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		b, err := s.batch(id, schema.DisplayName(id))
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}

// Roster returns one batch by id (or name) with its students. An unknown
// batch has an empty roster.
func (s *Service) Roster(batch string) (types.Batch, error) {
	id := schema.BatchID(batch)
	if id == "" {
		return types.Batch{}, apperr.InvalidInput("batch is required")
	}
	return s.batch(id, s.nameOf(id))
}

func (s *Service) batch(id, name string) (types.Batch, error) {
	students, err := s.schema.Roster(id)
	if err != nil {
		return types.Batch{}, err
	}
	return types.Batch{ID: id, Name: name, Students: students}, nil
}

func (s *Service) nameOf(id string) string {
	for _, name := range s.catalog {
		if schema.BatchID(name) == id {
			return name
		}
	}
	return schema.DisplayName(id)
}

// Submit stores marks as today's attendance for the batch and returns the
// day it was filed under. Any earlier submission for that day is replaced.
func (s *Service) Submit(batch string, marks types.Marks) (time.Time, error) {
	day := s.Today()
	if err := s.SubmitOn(batch, day, marks); err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// SubmitOn stores marks for an explicit day. Only the calendar date of
// day is used; its clock and zone are ignored.
func (s *Service) SubmitOn(batch string, day time.Time, marks types.Marks) error {
	if schema.BatchID(batch) == "" {
		return apperr.InvalidInput("batch is required")
	}
	if marks == nil {
		marks = types.Marks{}
	}
	return s.schema.SaveAttendance(batch, s.calendarDay(day), marks)
}

// Day returns the stored marks for a batch on a day; empty when nothing
// was submitted.
func (s *Service) Day(batch string, day time.Time) (types.Marks, error) {
	marks, _, err := s.schema.Attendance(batch, s.calendarDay(day))
	return marks, err
}

// ParseDay parses a "2006-01-02" calendar date in the service's location.
func (s *Service) ParseDay(v string) (time.Time, error) {
	return ParseDay(v, s.loc)
}

// ParseMonth parses a "2006-01" month in the service's location.
func (s *Service) ParseMonth(v string) (time.Time, error) {
	return ParseMonth(v, s.loc)
}

// ParseDay parses a "2006-01-02" calendar date as midnight in loc.
func ParseDay(v string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(schema.DateLayout, v, loc)
	if err != nil {
		return time.Time{}, apperr.InvalidInput("date must be YYYY-MM-DD")
	}
	return day, nil
}

// ParseMonth parses a "2006-01" month into its first day in loc.
func ParseMonth(v string, loc *time.Location) (time.Time, error) {
	month, err := time.ParseInLocation(MonthLayout, v, loc)
	if err != nil {
		return time.Time{}, apperr.InvalidInput("month must be YYYY-MM")
	}
	return month, nil
}

// calendarDay keeps the year, month and day of t as written and pins them
// to midnight in the service's location.
func (s *Service) calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// daysInMonth lists every calendar day of the month containing t, as
// midnights in loc.
func daysInMonth(t time.Time, loc *time.Location) []time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, 31)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
