// Package apperr defines the error taxonomy shared by every flow.
//
// Each failure a user can cause has a Kind. Flows return *Error values;
// callers compare with errors.Is against the exported sentinels, which
// match on Kind only, so a RoleMismatch that names "teacher" still
// matches ErrRoleMismatch:
//
//	if errors.Is(err, apperr.ErrEmailTaken) { ... }
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind string

const (
	KindPasswordMismatch        Kind = "PasswordMismatch"
	KindEmailTaken              Kind = "EmailTaken"
	KindInvalidFacultyEmail     Kind = "InvalidFacultyEmail"
	KindInvalidCredentials      Kind = "InvalidCredentials"
	KindRoleMismatch            Kind = "RoleMismatch"
	KindInvalidRollNumberFormat Kind = "InvalidRollNumberFormat"
	KindAlreadyEnrolled         Kind = "AlreadyEnrolled"
	KindRollNumberTaken         Kind = "RollNumberTaken"
	KindStudentNotFound         Kind = "StudentNotFound"
	KindUnauthenticated         Kind = "Unauthenticated"
	KindInvalidInput            Kind = "InvalidInput"
	KindOperationFailed         Kind = "OperationFailed"
)

// Error is a classified failure with a short human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrPasswordMismatch        = &Error{Kind: KindPasswordMismatch, Message: "Passwords do not match"}
	ErrEmailTaken              = &Error{Kind: KindEmailTaken, Message: "Email already registered"}
	ErrInvalidFacultyEmail     = &Error{Kind: KindInvalidFacultyEmail, Message: "Teachers must use a faculty email address (@faculty.edu)"}
	ErrInvalidCredentials      = &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials"}
	ErrRoleMismatch            = &Error{Kind: KindRoleMismatch, Message: "Role mismatch"}
	ErrInvalidRollNumberFormat = &Error{Kind: KindInvalidRollNumberFormat, Message: "Invalid roll number format. Example: CSE001"}
	ErrAlreadyEnrolled         = &Error{Kind: KindAlreadyEnrolled, Message: "You are already enrolled in a batch"}
	ErrRollNumberTaken         = &Error{Kind: KindRollNumberTaken, Message: "This roll number is already registered"}
	ErrStudentNotFound         = &Error{Kind: KindStudentNotFound, Message: "Student not found"}
	ErrUnauthenticated         = &Error{Kind: KindUnauthenticated, Message: "Not logged in"}
	ErrInvalidInput            = &Error{Kind: KindInvalidInput, Message: "Invalid input"}
	ErrOperationFailed         = &Error{Kind: KindOperationFailed, Message: "Operation failed"}
)

// RoleMismatch builds the login error that names the account's real role.
func RoleMismatch(actual string) *Error {
	return &Error{
		Kind:    KindRoleMismatch,
		Message: fmt.Sprintf("This email is registered as a %s. Please select the correct role.", actual),
	}
}

// InvalidInput builds an InvalidInput error with a specific message.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// OperationFailed wraps an unexpected storage or encoding error. The
// message shown to users stays generic; the cause is kept for logs.
func OperationFailed(err error) *Error {
	return &Error{Kind: KindOperationFailed, Message: ErrOperationFailed.Message, Err: err}
}

// KindOf returns the Kind of err, or KindOperationFailed when err is not
// classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOperationFailed
}
