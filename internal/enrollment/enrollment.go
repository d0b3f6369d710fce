// Package enrollment puts a student into a batch.
//
// An enrollment is written twice: once as the student's own record under
// enrollment_<userId>, then as a row appended to the batch roster. The
// two writes are not atomic; the record always goes first.
package enrollment

import (
	"regexp"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/storage"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// TimestampLayout is the enrolledAt format: UTC with millisecond precision
// and a Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// rollNumberPattern is a department code of 2-4 capitals and 3 digits.
var rollNumberPattern = regexp.MustCompile(`^[A-Z]{2,4}\d{3}$`)

// ValidRollNumber reports whether s is a well-formed roll number.
func ValidRollNumber(s string) bool {
	return rollNumberPattern.MatchString(s)
}

// Input is the enrollment form.
type Input struct {
	Name       string `json:"name"       validate:"required"`
	RollNumber string `json:"rollNumber" validate:"required"`
	Batch      string `json:"batch"      validate:"required"`
}

// Status is what the student dashboard shows.
type Status struct {
	IsEnrolled bool `json:"isEnrolled"`
	types.Enrollment
}

// Service runs the enrollment flow against a store.
type Service struct {
	schema *schema.Schema
	now    func() time.Time
}

// NewService builds the service. now stamps enrolledAt; nil means time.Now.
func NewService(store storage.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{schema: schema.New(store), now: now}
}

// Enroll records userID in a batch.
//
// Checks run in order and the first failure wins:
//  1. the roll number is well formed
//  2. the user holds no enrollment yet
//  3. no other enrollment uses the roll number
//
// A batch name with no visible characters is rejected alongside the roll
// number check, before anything is written.
func (s *Service) Enroll(userID string, in Input) (types.Enrollment, error) {
	if !ValidRollNumber(in.RollNumber) {
		return types.Enrollment{}, apperr.ErrInvalidRollNumberFormat
	}
	if schema.BatchID(in.Batch) == "" {
		return types.Enrollment{}, apperr.InvalidInput("batch is required")
	}

	enrolled, err := s.schema.HasEnrollment(userID)
	if err != nil {
		return types.Enrollment{}, err
	}
	if enrolled {
		return types.Enrollment{}, apperr.ErrAlreadyEnrolled
	}

	all, err := s.schema.Enrollments()
	if err != nil {
		return types.Enrollment{}, err
	}
	for _, e := range all {
		if e.RollNumber == in.RollNumber {
			return types.Enrollment{}, apperr.ErrRollNumberTaken
		}
	}

	record := types.Enrollment{
		UserID:     userID,
		RollNumber: in.RollNumber,
		Batch:      in.Batch,
		Name:       in.Name,
		EnrolledAt: s.now().UTC().Format(TimestampLayout),
	}

	if err := s.schema.SaveEnrollment(record); err != nil {
		return types.Enrollment{}, err
	}

	roster, err := s.schema.Roster(in.Batch)
	if err != nil {
		return types.Enrollment{}, err
	}
	roster = append(roster, types.RosterEntry{
		ID:         userID,
		RollNumber: in.RollNumber,
		Name:       in.Name,
	})
	if err := s.schema.SaveRoster(in.Batch, roster); err != nil {
		return types.Enrollment{}, err
	}

	return record, nil
}

// Status returns the user's enrollment, if any.
func (s *Service) Status(userID string) (Status, error) {
	e, ok, err := s.schema.Enrollment(userID)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, nil
	}
	return Status{IsEnrolled: true, Enrollment: e}, nil
}
