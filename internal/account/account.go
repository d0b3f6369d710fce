// Package account implements registration, login and the single active
// session.
//
// Accounts live in the users list and are never updated or deleted. The
// session is one record under the user key: logging in or registering
// replaces it, logging out removes it.
package account

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/credential"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/storage"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// FacultyDomain is the suffix every teacher email must carry.
const FacultyDomain = "@faculty.edu"

// Dashboard routes, one per role, plus the login page for signed-out
// visitors.
const (
	RouteTeacherDashboard = "/dashboard"
	RouteStudentDashboard = "/student-dashboard"
	RouteLogin            = "/login"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string `json:"name"            validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role"            validate:"required,oneof=student teacher"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=student teacher"`
}

// Service runs the account flows against a store.
type Service struct {
	schema   *schema.Schema
	verifier credential.Verifier
	newID    func() string
}

// Option customises a Service.
type Option func(*Service)

// WithIDGenerator replaces the ULID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService builds the account service. verifier decides how passwords
// are stored and checked; ids are ULIDs unless WithIDGenerator says
// otherwise.
func NewService(store storage.Store, verifier credential.Verifier, opts ...Option) *Service {
	s := &Service{
		schema:   schema.New(store),
		verifier: verifier,
		newID:    func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DashboardFor returns the route a user of role lands on.
func DashboardFor(role string) string {
	if role == types.RoleTeacher {
		return RouteTeacherDashboard
	}
	return RouteStudentDashboard
}

// Register creates an account and makes it the active session.
//
// Checks run in order and the first failure wins:
//  1. password and confirmation match
//  2. no account already uses the email
//  3. teachers use a faculty address
func (s *Service) Register(in RegisterInput) (types.User, error) {
	if in.Password != in.ConfirmPassword {
		return types.User{}, apperr.ErrPasswordMismatch
	}

	users, err := s.schema.Users()
	if err != nil {
		return types.User{}, err
	}

	for _, u := range users {
		if u.Email == in.Email {
			return types.User{}, apperr.ErrEmailTaken
		}
	}

	if in.Role == types.RoleTeacher && !strings.HasSuffix(in.Email, FacultyDomain) {
		return types.User{}, apperr.ErrInvalidFacultyEmail
	}

	sealed, err := s.verifier.Seal(in.Password)
	if err != nil {
		return types.User{}, apperr.OperationFailed(err)
	}

	user := types.User{
		ID:       s.newID(),
		Email:    in.Email,
		Role:     in.Role,
		Name:     in.Name,
		Password: sealed,
	}

	if err := s.schema.SaveUsers(append(users, user)); err != nil {
		return types.User{}, err
	}
	if err := s.schema.SetSession(user); err != nil {
		return types.User{}, err
	}

	return user, nil
}

// Login finds the account matching email and password and makes it the
// active session. An account found under a different role is rejected
// with a message naming its real role.
func (s *Service) Login(in LoginInput) (types.User, error) {
	users, err := s.schema.Users()
	if err != nil {
		return types.User{}, err
	}

	var (
		user  types.User
		found bool
	)
	for _, u := range users {
		if u.Email == in.Email && s.verifier.Verify(u.Password, in.Password) {
			user, found = u, true
			break
		}
	}

	if !found {
		return types.User{}, apperr.ErrInvalidCredentials
	}
	if user.Role != in.Role {
		return types.User{}, apperr.RoleMismatch(user.Role)
	}

	if err := s.schema.SetSession(user); err != nil {
		return types.User{}, err
	}

	return user, nil
}

// Logout ends the active session. Logging out twice is harmless.
func (s *Service) Logout() error {
	return s.schema.ClearSession()
}

// Current returns the active session's account.
func (s *Service) Current() (types.User, error) {
	user, ok, err := s.schema.Session()
	if err != nil {
		return types.User{}, err
	}
	if !ok {
		return types.User{}, apperr.ErrUnauthenticated
	}
	return user, nil
}
