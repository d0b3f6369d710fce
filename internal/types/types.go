// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, schema, and the flows can all import types without depending
// on each other.
//
// Field order and json tags define the persisted layout. Changing either
// changes the bytes written to the store.
package types

// Roles an account can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is a registered account. The same shape is stored in the users
// list and as the active session.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Enrollment is one student's enrollment record.
type Enrollment struct {
	UserID     string `json:"userId"`
	RollNumber string `json:"rollNumber"`
	Batch      string `json:"batch"`
	Name       string `json:"name"`
	EnrolledAt string `json:"enrolledAt"`
}

// RosterEntry is a student's row in a batch roster, a denormalized copy
// of the enrollment.
type RosterEntry struct {
	ID         string `json:"id"`
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// Marks maps a student id to present (true) or absent (false) for one
// batch on one day. A missing id means "not recorded".
type Marks map[string]bool

// Batch is a catalog entry with its current roster.
type Batch struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Students []RosterEntry `json:"students"`
}
