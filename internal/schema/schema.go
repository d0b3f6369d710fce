// Package schema is the typed view over the flat key-value store.
//
// Every key the application reads or writes is formatted here, and every
// value passes through the same JSON rules:
//
//   - an absent key yields the caller's default
//   - a value that fails to parse also yields the default, never an error
//   - only backend failures are returned, classified as OperationFailed
//
// Layout:
//
//	users                         []User
//	user                          User (active session)
//	enrollment_<userId>           Enrollment
//	batch_<batchNameNoSpaces>     []RosterEntry
//	attendance_<batchId>_<date>   Marks
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aanand-mishra/attendance-api/internal/apperr"
	"github.com/aanand-mishra/attendance-api/internal/storage"
	"github.com/aanand-mishra/attendance-api/internal/types"
)

// Schema wraps a storage.Store with typed accessors.
type Schema struct {
	store storage.Store
}

// New wraps store. The Schema holds no state of its own, so any number
// of them may share one store.
func New(store storage.Store) *Schema {
	return &Schema{store: store}
}

// ── generic helpers ─────────────────────────────────────────────────────────

func load[T any](store storage.Store, key string, def T) (T, bool, error) {
	raw, ok, err := store.Get(key)
	if err != nil {
		return def, false, apperr.OperationFailed(fmt.Errorf("schema: get %s: %w", key, err))
	}
	if !ok {
		return def, false, nil
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, false, nil
	}
	return v, true, nil
}

func save(store storage.Store, key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return apperr.OperationFailed(fmt.Errorf("schema: encode %s: %w", key, err))
	}
	if err := store.Set(key, raw); err != nil {
		return apperr.OperationFailed(fmt.Errorf("schema: set %s: %w", key, err))
	}
	return nil
}

// encode marshals without HTML escaping so stored text matches what a
// browser's JSON.stringify writes for the same value.
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (s *Schema) keysWithPrefix(prefix string) ([]string, error) {
	keys, err := s.store.Keys()
	if err != nil {
		return nil, apperr.OperationFailed(fmt.Errorf("schema: keys: %w", err))
	}

	out := make([]string, 0)
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// ── users ───────────────────────────────────────────────────────────────────

// Users returns every registered account, empty when none are stored.
func (s *Schema) Users() ([]types.User, error) {
	users, _, err := load(s.store, UsersKey, []types.User{})
	if users == nil {
		users = []types.User{}
	}
	return users, err
}

// SaveUsers replaces the whole users list.
func (s *Schema) SaveUsers(users []types.User) error {
	if users == nil {
		users = []types.User{}
	}
	return save(s.store, UsersKey, users)
}

// ── session ─────────────────────────────────────────────────────────────────

// Session returns the active account. ok is false when there is no session
// or the stored record has no id.
func (s *Schema) Session() (types.User, bool, error) {
	u, _, err := load(s.store, SessionKey, types.User{})
	if err != nil {
		return types.User{}, false, err
	}
	return u, u.ID != "", nil
}

// SetSession makes u the active account.
func (s *Schema) SetSession(u types.User) error {
	return save(s.store, SessionKey, u)
}

// ClearSession removes the active account, if any.
func (s *Schema) ClearSession() error {
	if err := s.store.Remove(SessionKey); err != nil {
		return apperr.OperationFailed(fmt.Errorf("schema: remove %s: %w", SessionKey, err))
	}
	return nil
}

// ── enrollments ─────────────────────────────────────────────────────────────

// HasEnrollment reports whether anything is stored under the user's
// enrollment key, parseable or not.
func (s *Schema) HasEnrollment(userID string) (bool, error) {
	_, ok, err := s.store.Get(EnrollmentKey(userID))
	if err != nil {
		return false, apperr.OperationFailed(fmt.Errorf("schema: get enrollment: %w", err))
	}
	return ok, nil
}

// Enrollment returns the user's parsed enrollment record.
func (s *Schema) Enrollment(userID string) (types.Enrollment, bool, error) {
	return load(s.store, EnrollmentKey(userID), types.Enrollment{})
}

// SaveEnrollment writes e under its user's enrollment key.
func (s *Schema) SaveEnrollment(e types.Enrollment) error {
	return save(s.store, EnrollmentKey(e.UserID), e)
}

// Enrollments scans every enrollment_ key. Records that fail to parse are
// skipped.
func (s *Schema) Enrollments() ([]types.Enrollment, error) {
	keys, err := s.keysWithPrefix(EnrollmentPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]types.Enrollment, 0, len(keys))
	for _, k := range keys {
		e, ok, err := load(s.store, k, types.Enrollment{})
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── batch rosters ───────────────────────────────────────────────────────────

// Roster returns the students enrolled in batch, in enrollment order.
func (s *Schema) Roster(batch string) ([]types.RosterEntry, error) {
	roster, _, err := load(s.store, BatchKey(batch), []types.RosterEntry{})
	if roster == nil {
		roster = []types.RosterEntry{}
	}
	return roster, err
}

// SaveRoster replaces the roster stored for batch.
func (s *Schema) SaveRoster(batch string, roster []types.RosterEntry) error {
	if roster == nil {
		roster = []types.RosterEntry{}
	}
	return save(s.store, BatchKey(batch), roster)
}

// BatchIDs lists the id of every stored roster in key order.
func (s *Schema) BatchIDs() ([]string, error) {
	keys, err := s.keysWithPrefix(BatchPrefix)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if id, ok := batchIDFromKey(k); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ── attendance ──────────────────────────────────────────────────────────────

// Attendance returns one day's marks for a batch. ok is false when nothing
// usable is stored for that day.
func (s *Schema) Attendance(batch string, day time.Time) (types.Marks, bool, error) {
	marks, ok, err := load(s.store, AttendanceKey(batch, day), types.Marks{})
	if marks == nil {
		marks = types.Marks{}
	}
	return marks, ok, err
}

// SaveAttendance replaces the day's record for the batch.
func (s *Schema) SaveAttendance(batch string, day time.Time, marks types.Marks) error {
	if marks == nil {
		marks = types.Marks{}
	}
	return save(s.store, AttendanceKey(batch, day), marks)
}
