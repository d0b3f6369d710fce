// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client (report
// downloads excepted). Rather than repeating the same three lines (set
// header, set status, encode JSON) in every handler, we centralise them
// here.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape. Error responses always look
// like:
//
//	{ "status": "error", "code": "EmailTaken", "error": "Email already registered" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"`         // "ok" or "error"
	Code   string `json:"code,omitempty"` // apperr.Kind when known
	Error  string `json:"error"`          // human-readable error detail
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into our standard Response shape.
// Use this for decode errors and other failures outside the taxonomy.
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError renders a flow error: its kind as the code and its message as
// the error text. Unclassified errors are reported as OperationFailed so
// internal details never reach the client.
// ─────────────────────────────────────────────────────────────────────────────
func AppError(err error) (int, Response) {
	kind := apperr.KindOf(err)

	msg := apperr.ErrOperationFailed.Message
	if kind != apperr.KindOperationFailed {
		msg = err.Error()
	}

	return StatusFor(kind), Response{
		Status: StatusError,
		Code:   string(kind),
		Error:  msg,
	}
}

// WriteAppError is AppError followed by WriteJSON.
func WriteAppError(w http.ResponseWriter, err error) error {
	status, body := AppError(err)
	return WriteJSON(w, status, body)
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindPasswordMismatch,
		apperr.KindInvalidFacultyEmail,
		apperr.KindInvalidRollNumberFormat,
		apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindRoleMismatch:
		return http.StatusForbidden
	case apperr.KindStudentNotFound:
		return http.StatusNotFound
	case apperr.KindEmailTaken, apperr.KindAlreadyEnrolled, apperr.KindRollNumberTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "error": "field Name is required, field Role must be one of [student teacher]" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of [%s]", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Code:   string(apperr.KindInvalidInput),
		Error:  strings.Join(errMessages, ", "),
	}
}
