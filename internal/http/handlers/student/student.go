// Package student contains the HTTP handlers behind the student dashboard
// and the public attendance tracker.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once at startup and
// returns the func(http.ResponseWriter, *http.Request) the router calls
// on every request:
//
//	router.HandleFunc("POST /api/enrollments", student.Enroll(accounts, enrollments))
package student

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/attendance"
	"github.com/aanand-mishra/attendance-api/internal/enrollment"
	"github.com/aanand-mishra/attendance-api/internal/types"
	"github.com/aanand-mishra/attendance-api/internal/utils/request"
	"github.com/aanand-mishra/attendance-api/internal/utils/response"
)

// Sessions resolves the logged-in account.
type Sessions interface {
	Current() (types.User, error)
}

// Enrollments is the enrollment flow as the handlers need it.
type Enrollments interface {
	Enroll(userID string, in enrollment.Input) (types.Enrollment, error)
	Status(userID string) (enrollment.Status, error)
}

// Tracker looks up a student's monthly attendance.
type Tracker interface {
	Lookup(rollNumber string, month time.Time) (attendance.Report, error)
	Today() time.Time
	ParseMonth(v string) (time.Time, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Enroll handles POST /api/enrollments
// Enrolls the logged-in user in a batch.
//
// Request body (JSON):
//
//	{ "name": "Asha", "rollNumber": "CSE001", "batch": "CSE 2024" }
//
// Success response (201 Created): the stored enrollment record.
//
// Error responses:
//
//	400 Bad Request  : malformed body or InvalidRollNumberFormat
//	401 Unauthorized : no active session
//	409 Conflict     : AlreadyEnrolled, RollNumberTaken
//
// ─────────────────────────────────────────────────────────────────────────────
func Enroll(sessions Sessions, enrollments Enrollments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := sessions.Current()
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		slog.Info("enrolling a student", slog.String("user", user.ID))

		var in enrollment.Input
		if !request.Decode(w, r, &in) {
			return
		}

		record, err := enrollments.Enroll(user.ID, in)
		if err != nil {
			slog.Warn("enrollment rejected",
				slog.String("user", user.ID),
				slog.String("rollNumber", in.RollNumber),
				slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		slog.Info("student enrolled",
			slog.String("user", user.ID),
			slog.String("batch", record.Batch))

		response.WriteJSON(w, http.StatusCreated, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// MyEnrollment handles GET /api/enrollments/me
//
// Success response (200 OK):
//
//	{ "isEnrolled": true, "userId": "...", "rollNumber": "CSE001", ... }
//
// or { "isEnrolled": false, ... } before the student has enrolled.
// ─────────────────────────────────────────────────────────────────────────────
func MyEnrollment(sessions Sessions, enrollments Enrollments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := sessions.Current()
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		status, err := enrollments.Status(user.ID)
		if err != nil {
			slog.Error("error reading enrollment",
				slog.String("user", user.ID),
				slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, status)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Attendance handles GET /api/students/{rollNumber}/attendance?month=2024-05
// Reports one student's attendance for a month. month defaults to the
// current one. The roll number must match the roster exactly.
//
// Error responses:
//
//	400 Bad Request : month is not YYYY-MM
//	404 Not Found   : no roster holds the roll number
//
// ─────────────────────────────────────────────────────────────────────────────
func Attendance(tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rollNumber := r.PathValue("rollNumber")
		slog.Info("looking up attendance", slog.String("rollNumber", rollNumber))

		month := tracker.Today()
		if v := r.URL.Query().Get("month"); v != "" {
			parsed, err := tracker.ParseMonth(v)
			if err != nil {
				response.WriteAppError(w, err)
				return
			}
			month = parsed
		}

		rep, err := tracker.Lookup(rollNumber, month)
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, rep)
	}
}
