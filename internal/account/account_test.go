package account

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/credential"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/storage/memory"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

func newTestService(t *testing.T) (*Service, *memory.Memory) {
	t.Helper()
	store := memory.New()
	n := 0
	svc := NewService(store, credential.Plaintext{}, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return svc, store
}

func register(email, role string) RegisterInput {
	return RegisterInput{
		Name:            "Someone",
		Email:           email,
		Password:        "secret",
		ConfirmPassword: "secret",
		Role:            role,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService(t)

	for _, in := range []RegisterInput{
		register("asha@uni.edu", types.RoleStudent),
		register("mehta@faculty.edu", types.RoleTeacher),
	} {
		created, err := svc.Register(in)
		require.NoError(t, err)

		require.NoError(t, svc.Logout())

		got, err := svc.Login(LoginInput{Email: in.Email, Password: in.Password, Role: in.Role})
		require.NoError(t, err)
		assert.Equal(t, created, got)

		current, err := svc.Current()
		require.NoError(t, err)
		assert.Equal(t, created, current)
	}
}

func TestRegisterStoresLayout(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Register(register("asha@uni.edu", types.RoleStudent))
	require.NoError(t, err)

	raw, ok, err := store.Get(schema.UsersKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"id-1","email":"asha@uni.edu","role":"student","name":"Someone","password":"secret"}]`, raw)

	session, ok, err := store.Get(schema.SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"id-1","email":"asha@uni.edu","role":"student","name":"Someone","password":"secret"}`, session)
}

func TestRegisterValidationOrder(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(register("taken@uni.edu", types.RoleStudent))
	require.NoError(t, err)

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{
			name: "mismatch wins over duplicate email",
			in: RegisterInput{
				Email: "taken@uni.edu", Password: "a", ConfirmPassword: "b", Role: types.RoleTeacher,
			},
			want: apperr.ErrPasswordMismatch,
		},
		{
			name: "duplicate email wins over faculty domain",
			in:   register("taken@uni.edu", types.RoleTeacher),
			want: apperr.ErrEmailTaken,
		},
		{
			name: "teacher without faculty domain",
			in:   register("prof@uni.edu", types.RoleTeacher),
			want: apperr.ErrInvalidFacultyEmail,
		},
		{
			name: "suffix check is literal",
			in:   register("prof@faculty.edu.evil.com", types.RoleTeacher),
			want: apperr.ErrInvalidFacultyEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRegisterDuplicateEmailAnyRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(register("x@faculty.edu", types.RoleTeacher))
	require.NoError(t, err)

	_, err = svc.Register(register("x@faculty.edu", types.RoleStudent))
	assert.True(t, errors.Is(err, apperr.ErrEmailTaken))

	_, err = svc.Register(register("X@faculty.edu", types.RoleStudent))
	assert.NoError(t, err, "email comparison is case-sensitive")
}

func TestNonFacultyEmailAllowedForStudent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(register("prof@uni.edu", types.RoleTeacher))
	require.True(t, errors.Is(err, apperr.ErrInvalidFacultyEmail))

	_, err = svc.Register(register("prof@uni.edu", types.RoleStudent))
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(register("mehta@faculty.edu", types.RoleTeacher))
	require.NoError(t, err)
	require.NoError(t, svc.Logout())

	_, err = svc.Login(LoginInput{Email: "mehta@faculty.edu", Password: "nope", Role: types.RoleTeacher})
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = svc.Login(LoginInput{Email: "ghost@faculty.edu", Password: "secret", Role: types.RoleTeacher})
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = svc.Login(LoginInput{Email: "mehta@faculty.edu", Password: "secret", Role: types.RoleStudent})
	require.True(t, errors.Is(err, apperr.ErrRoleMismatch))
	assert.Contains(t, err.Error(), "registered as a teacher")

	_, err = svc.Current()
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated), "failed logins never open a session")
}

func TestBcryptScheme(t *testing.T) {
	store := memory.New()
	svc := NewService(store, credential.Bcrypt{Cost: bcrypt.MinCost})

	created, err := svc.Register(register("asha@uni.edu", types.RoleStudent))
	require.NoError(t, err)
	assert.NotEqual(t, "secret", created.Password)
	assert.NotEmpty(t, created.ID)

	_, err = svc.Login(LoginInput{Email: "asha@uni.edu", Password: "secret", Role: types.RoleStudent})
	assert.NoError(t, err)
}

func TestDashboardFor(t *testing.T) {
	assert.Equal(t, RouteTeacherDashboard, DashboardFor(types.RoleTeacher))
	assert.Equal(t, RouteStudentDashboard, DashboardFor(types.RoleStudent))
}
