// Package teacher contains the HTTP handlers behind the teacher dashboard:
// batch rosters, daily attendance marking and report export.
package teacher

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/attendance"
	"github.com/aanand-mishra/attendance-api/internal/report"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/types"
	"github.com/aanand-mishra/attendance-api/internal/utils/request"
	"github.com/aanand-mishra/attendance-api/internal/utils/response"
)

// Register is the attendance flow as the handlers need it.
type Register interface {
	Batches() ([]types.Batch, error)
	Roster(batch string) (types.Batch, error)
	Submit(batch string, marks types.Marks) (time.Time, error)
	Day(batch string, day time.Time) (types.Marks, error)
	Today() time.Time
	ParseDay(v string) (time.Time, error)
}

// SubmitRequest carries a day's attendance either as the finished mapping
// or as the sequence of toggles made on the sheet, never both.
//
//	{ "marks": { "u1": true, "u2": false } }
//	{ "toggled": ["u1", "u2", "u2"] }
type SubmitRequest struct {
	Marks   types.Marks `json:"marks"   validate:"required_without=Toggled,excluded_with=Toggled"`
	Toggled []string    `json:"toggled" validate:"required_without=Marks"`
}

// resolve returns the mapping to store.
func (s SubmitRequest) resolve() types.Marks {
	if s.Toggled == nil {
		return s.Marks
	}
	sheet := attendance.NewSheet()
	for _, id := range s.Toggled {
		sheet.Toggle(id)
	}
	return sheet.Marks()
}

// SubmitResponse echoes what was stored and where.
type SubmitResponse struct {
	Batch string      `json:"batch"`
	Date  string      `json:"date"`
	Marks types.Marks `json:"marks"`
}

// Batches handles GET /api/batches
func Batches(reg Register) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing batches")

		batches, err := reg.Batches()
		if err != nil {
			slog.Error("error listing batches", slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, batches)
	}
}

// Batch handles GET /api/batches/{id}
func Batch(reg Register) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a batch", slog.String("id", id))

		batch, err := reg.Roster(id)
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, batch)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitAttendance handles POST /api/batches/{id}/attendance
// Stores today's attendance for the batch, replacing any earlier
// submission for the same day.
//
// Success response (200 OK):
//
//	{ "batch": "CSE2024", "date": "2024-05-01", "marks": { "u1": true } }
//
// ─────────────────────────────────────────────────────────────────────────────
func SubmitAttendance(reg Register) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("submitting attendance", slog.String("batch", id))

		var in SubmitRequest
		if !request.Decode(w, r, &in) {
			return
		}

		marks := in.resolve()
		day, err := reg.Submit(id, marks)
		if err != nil {
			slog.Error("error submitting attendance",
				slog.String("batch", id),
				slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		slog.Info("attendance stored",
			slog.String("batch", id),
			slog.String("date", day.Format(schema.DateLayout)),
			slog.Int("marks", len(marks)))

		response.WriteJSON(w, http.StatusOK, SubmitResponse{
			Batch: schema.BatchID(id),
			Date:  day.Format(schema.DateLayout),
			Marks: marks,
		})
	}
}

// DayAttendance handles GET /api/batches/{id}/attendance/{date}
func DayAttendance(reg Register) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		day, err := reg.ParseDay(r.PathValue("date"))
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		marks, err := reg.Day(id, day)
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, marks)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Report handles GET /api/batches/{id}/report?date=2024-05-01&format=pdf
// Streams the attendance report for one day as a download. date defaults
// to today and format to pdf.
//
// The document is rendered into a buffer first so a rendering failure can
// still be answered with a JSON error.
// ─────────────────────────────────────────────────────────────────────────────
func Report(reg Register) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		q := r.URL.Query()

		format, err := report.ParseFormat(q.Get("format"))
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		today := reg.Today()
		day := today
		if v := q.Get("date"); v != "" {
			if day, err = reg.ParseDay(v); err != nil {
				response.WriteAppError(w, err)
				return
			}
		}

		slog.Info("exporting report",
			slog.String("batch", id),
			slog.String("date", day.Format(schema.DateLayout)),
			slog.String("format", string(format)))

		batch, err := reg.Roster(id)
		if err != nil {
			response.WriteAppError(w, err)
			return
		}
		marks, err := reg.Day(id, day)
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		summary := report.Build(batch.Name, batch.Students, marks, today)

		var buf bytes.Buffer
		if err := report.Write(&buf, summary, format); err != nil {
			slog.Error("error rendering report",
				slog.String("batch", id),
				slog.String("error", err.Error()))
			if !errors.Is(err, apperr.ErrInvalidInput) {
				err = apperr.OperationFailed(err)
			}
			response.WriteAppError(w, err)
			return
		}

		filename := report.Filename(batch.Name, today, format)
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("error writing report", slog.String("error", err.Error()))
		}
	}
}
