package schema

import (
	"regexp"
	"strings"
	"time"
)

// Fixed keys and key prefixes of the persisted layout.
const (
	UsersKey   = "users"
	SessionKey = "user"

	EnrollmentPrefix = "enrollment_"
	BatchPrefix      = "batch_"
	AttendancePrefix = "attendance_"
)

// DateLayout is the calendar-day format used in attendance keys.
const DateLayout = "2006-01-02"

var (
	whitespace = regexp.MustCompile(`\s+`)
	digits     = regexp.MustCompile(`\d+`)
)

// BatchID strips all whitespace from a batch name: "CSE 2024" -> "CSE2024".
// Applying it to an id is a no-op.
func BatchID(name string) string {
	return whitespace.ReplaceAllString(name, "")
}

// DisplayName turns a batch id back into its human form by putting a space
// before the first run of digits: "CSE2024" -> "CSE 2024".
func DisplayName(batchID string) string {
	loc := digits.FindStringIndex(batchID)
	if loc == nil || loc[0] == 0 {
		return batchID
	}
	return batchID[:loc[0]] + " " + batchID[loc[0]:]
}

// EnrollmentKey is enrollment_<userId>.
func EnrollmentKey(userID string) string {
	return EnrollmentPrefix + userID
}

// BatchKey is batch_<id>; batch may be a name or an id.
func BatchKey(batch string) string {
	return BatchPrefix + BatchID(batch)
}

// AttendanceKey is attendance_<id>_<yyyy-MM-dd>, using the calendar date
// of day as written.
func AttendanceKey(batch string, day time.Time) string {
	return AttendancePrefix + BatchID(batch) + "_" + day.Format(DateLayout)
}

// batchIDFromKey returns the id part of a batch_ key.
func batchIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, BatchPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(key, BatchPrefix)
	return id, id != ""
}
