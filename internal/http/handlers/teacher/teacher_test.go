package teacher

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/attendance-api/internal/attendance"
	"github.com/aanand-mishra/attendance-api/internal/schema"
	"github.com/aanand-mishra/attendance-api/internal/storage/memory"
	"github.com/aanand-mishra/attendance-api/internal/types"
	"github.com/aanand-mishra/attendance-api/internal/utils/response"
)

var now = time.Date(2024, time.May, 1, 23, 15, 0, 0, time.UTC)

func newMux(t *testing.T) (*http.ServeMux, *attendance.Service) {
	t.Helper()

	store := memory.New()
	require.NoError(t, schema.New(store).SaveRoster("CSE 2024", []types.RosterEntry{
		{ID: "u1", RollNumber: "CSE001", Name: "Asha"},
		{ID: "u2", RollNumber: "CSE002", Name: "Ravi"},
		{ID: "u3", RollNumber: "CSE003", Name: "Meera"},
	}))

	reg := attendance.NewService(store, []string{"CSE 2024", "ECE 2024"},
		func() time.Time { return now }, attendance.WithLocation(time.UTC))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/batches", Batches(reg))
	mux.HandleFunc("GET /api/batches/{id}", Batch(reg))
	mux.HandleFunc("POST /api/batches/{id}/attendance", SubmitAttendance(reg))
	mux.HandleFunc("GET /api/batches/{id}/attendance/{date}", DayAttendance(reg))
	mux.HandleFunc("GET /api/batches/{id}/report", Report(reg))
	return mux, reg
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestBatches(t *testing.T) {
	mux, _ := newMux(t)

	rec := do(mux, http.MethodGet, "/api/batches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []types.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "CSE2024", got[0].ID)
	assert.Len(t, got[0].Students, 3)
	assert.Equal(t, "ECE 2024", got[1].Name)
	assert.Empty(t, got[1].Students)
}

func TestBatch(t *testing.T) {
	mux, _ := newMux(t)

	rec := do(mux, http.MethodGet, "/api/batches/CSE2024", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "CSE 2024", got.Name)
	assert.Equal(t, "Ravi", got.Students[1].Name)
}

func TestSubmitMarks(t *testing.T) {
	mux, reg := newMux(t)

	rec := do(mux, http.MethodPost, "/api/batches/CSE2024/attendance",
		`{"marks":{"u1":true,"u2":false}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"batch":"CSE2024","date":"2024-05-01","marks":{"u1":true,"u2":false}}`,
		rec.Body.String())

	// a second submission replaces the first
	rec = do(mux, http.MethodPost, "/api/batches/CSE2024/attendance", `{"marks":{"u3":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	marks, err := reg.Day("CSE2024", now)
	require.NoError(t, err)
	assert.Equal(t, types.Marks{"u3": true}, marks)
}

func TestSubmitToggles(t *testing.T) {
	mux, reg := newMux(t)

	rec := do(mux, http.MethodPost, "/api/batches/CSE2024/attendance",
		`{"toggled":["u1","u2","u2","u3"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	marks, err := reg.Day("CSE2024", now)
	require.NoError(t, err)
	assert.Equal(t, types.Marks{"u1": true, "u2": false, "u3": true}, marks)
}

func TestSubmitRejects(t *testing.T) {
	mux, _ := newMux(t)

	for _, body := range []string{"", "{}", `{"marks":{"u1":true},"toggled":["u1"]}`} {
		rec := do(mux, http.MethodPost, "/api/batches/CSE2024/attendance", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestDayAttendance(t *testing.T) {
	mux, _ := newMux(t)
	do(mux, http.MethodPost, "/api/batches/CSE2024/attendance", `{"marks":{"u1":true}}`)

	rec := do(mux, http.MethodGet, "/api/batches/CSE2024/attendance/2024-05-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"u1":true}`, rec.Body.String())

	rec = do(mux, http.MethodGet, "/api/batches/CSE2024/attendance/2024-05-02", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = do(mux, http.MethodGet, "/api/batches/CSE2024/attendance/yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportCSV(t *testing.T) {
	mux, _ := newMux(t)
	do(mux, http.MethodPost, "/api/batches/CSE2024/attendance", `{"marks":{"u1":true,"u3":true}}`)

	rec := do(mux, http.MethodGet, "/api/batches/CSE2024/report?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-CSE-2024-2024-05-01.csv"`,
		rec.Header().Get("Content-Disposition"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "CSE002,Ravi,Absent")
	assert.Contains(t, body, "66.7%")
}

func TestReportPDF(t *testing.T) {
	mux, _ := newMux(t)

	rec := do(mux, http.MethodGet, "/api/batches/CSE2024/report?date=2024-04-30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestReportRejects(t *testing.T) {
	mux, _ := newMux(t)

	tests := []string{
		"/api/batches/CSE2024/report?format=docx",
		"/api/batches/CSE2024/report?date=05-01-2024",
	}
	for _, target := range tests {
		rec := do(mux, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body response.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "InvalidInput", body.Code)
	}
}
