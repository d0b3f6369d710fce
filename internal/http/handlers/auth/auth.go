// Package auth contains the HTTP handlers for registration, login and
// the active session.
//
// Successful register and login responses carry a redirect naming the
// dashboard for the account's role, so the client knows where to go next:
//
//	{ "user": { ... }, "redirect": "/dashboard" }
package auth

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/attendance-api/internal/account"
	"github.com/aanand-mishra/attendance-api/internal/types"
	"github.com/aanand-mishra/attendance-api/internal/utils/request"
	"github.com/aanand-mishra/attendance-api/internal/utils/response"
)

// Accounts is the account flow as the handlers need it.
type Accounts interface {
	Register(in account.RegisterInput) (types.User, error)
	Login(in account.LoginInput) (types.User, error)
	Logout() error
	Current() (types.User, error)
}

// Session is the body returned by register, login and GET /api/session.
type Session struct {
	User     types.User `json:"user"`
	Redirect string     `json:"redirect"`
}

// public drops the stored credential before a user leaves the server.
func public(u types.User) types.User {
	u.Password = ""
	return u
}

// ─────────────────────────────────────────────────────────────────────────────
// Register handles POST /api/register
//
// Request body (JSON):
//
//	{ "name": "Asha", "email": "asha@uni.edu", "password": "pw",
//	  "confirmPassword": "pw", "role": "student" }
//
// Success response (201 Created): Session
//
// Error responses:
//
//	400 Bad Request  : malformed body, PasswordMismatch, InvalidFacultyEmail
//	409 Conflict     : EmailTaken
//
// ─────────────────────────────────────────────────────────────────────────────
func Register(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("registering an account")

		var in account.RegisterInput
		if !request.Decode(w, r, &in) {
			return
		}

		user, err := accounts.Register(in)
		if err != nil {
			slog.Warn("registration rejected",
				slog.String("email", in.Email),
				slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		slog.Info("account registered",
			slog.String("id", user.ID),
			slog.String("role", user.Role))

		response.WriteJSON(w, http.StatusCreated, Session{
			User:     public(user),
			Redirect: account.DashboardFor(user.Role),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Login handles POST /api/login
//
// Request body (JSON):
//
//	{ "email": "mehta@faculty.edu", "password": "pw", "role": "teacher" }
//
// Error responses:
//
//	401 Unauthorized : InvalidCredentials
//	403 Forbidden    : RoleMismatch (message names the account's role)
//
// ─────────────────────────────────────────────────────────────────────────────
func Login(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in account.LoginInput
		if !request.Decode(w, r, &in) {
			return
		}

		slog.Info("logging in", slog.String("email", in.Email))

		user, err := accounts.Login(in)
		if err != nil {
			slog.Warn("login rejected",
				slog.String("email", in.Email),
				slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, Session{
			User:     public(user),
			Redirect: account.DashboardFor(user.Role),
		})
	}
}

// Logout handles POST /api/logout
func Logout(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("logging out")

		if err := accounts.Logout(); err != nil {
			slog.Error("error logging out", slog.String("error", err.Error()))
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   response.StatusOK,
			"redirect": account.RouteLogin,
		})
	}
}

// Current handles GET /api/session
func Current(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := accounts.Current()
		if err != nil {
			response.WriteAppError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, Session{
			User:     public(user),
			Redirect: account.DashboardFor(user.Role),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// RequireSession wraps a handler so it only runs while someone is logged
// in. Without a session the request is answered with 401 and the login
// route.
// ─────────────────────────────────────────────────────────────────────────────
func RequireSession(accounts Accounts, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := accounts.Current(); err != nil {
			slog.Debug("no active session", slog.String("path", r.URL.Path))
			response.WriteAppError(w, err)
			return
		}
		next(w, r)
	}
}
