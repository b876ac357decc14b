package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/repsboard/payroll-backend/internal/app"
	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/domain/batch"
	"github.com/repsboard/payroll-backend/internal/domain/candidate"
	"github.com/repsboard/payroll-backend/internal/domain/workrecord"
	"github.com/repsboard/payroll-backend/internal/pkg/export"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
	"github.com/repsboard/payroll-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasscode = "letmein"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	repos := app.SQLiteRepositories(db)
	t.Cleanup(repos.Close)

	JWTService := jwt.NewJWTService("router-test-secret", "1h")
	hub := sse.NewHub()
	services := app.NewServices(repos, JWTService, hub, testPasscode)

	return NewRouter(JWTService, Handlers{
		Auth:        NewAuthHandler(services.Auth),
		Events:      NewEventsHandler(services.Auth, JWTService, hub),
		WorkRecord:  NewWorkRecordHandler(services.WorkRecords),
		Batch:       NewBatchHandler(services.Batches),
		Candidate:   NewCandidateHandler(services.Candidates),
		Performance: NewPerformanceHandler(services.Performance),
		Dashboard:   NewDashboardHandler(services.Dashboard),
	}, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func adminToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/api/v1/auth/login/admin", "", auth.AdminLoginRequest{Passcode: testPasscode})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok auth.TokenResponse
	decodeData(t, rec, &tok)
	return tok.AccessToken
}

// createRep adds a candidate with login access and returns its id and token.
func createRep(t *testing.T, h http.Handler, admin, name, password string) (string, string) {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/api/v1/candidates", admin, candidate.CreateCandidateRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c candidate.CandidateResponse
	decodeData(t, rec, &c)

	rec = call(t, h, http.MethodPatch, "/api/v1/candidates/"+c.ID, admin, candidate.UpdateDetailsRequest{Password: &password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/api/v1/auth/login/rep", "", auth.RepLoginRequest{Username: c.Username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok auth.TokenResponse
	decodeData(t, rec, &tok)
	return c.ID, tok.AccessToken
}

func TestRouter_RecordLifecycle(t *testing.T) {
	h := newTestRouter(t)
	admin := adminToken(t, h)
	repID, repToken := createRep(t, h, admin, "Jane Doe", "s3cret-pass")

	rate := decimal.NewFromInt(10)
	save := workrecord.SaveWorkRecordRequest{
		EmployeeID: repID, Date: "2024-05-06", TalkTime: "01:00:00", WaitTime: "00:00:00",
		RatePerHour: &rate, SetsAdded: 1,
	}
	rec := call(t, h, http.MethodPost, "/api/v1/work-records", admin, save)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	save.TalkTime = "00:30:00"
	save.SetsAdded = 0
	rec = call(t, h, http.MethodPost, "/api/v1/work-records", admin, save)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var merged workrecord.SaveWorkRecordResponse
	decodeData(t, rec, &merged)
	assert.Equal(t, workrecord.ActionMerged, merged.Action)
	assert.Equal(t, "01:30:00", merged.Record.TalkTime)

	rec = call(t, h, http.MethodGet, "/api/v1/work-records", repToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []workrecord.WorkRecordResponse
	decodeData(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, repID, list[0].EmployeeID)

	rec = call(t, h, http.MethodPost, "/api/v1/batches", admin, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var generated batch.GenerateBatchResponse
	decodeData(t, rec, &generated)
	assert.Equal(t, 1, generated.RecordCount)

	rec = call(t, h, http.MethodGet, "/api/v1/batches/"+generated.BatchID+"/export?format=csv", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), generated.BatchID+".csv")
	assert.Contains(t, rec.Body.String(), "Jane Doe")

	rec = call(t, h, http.MethodGet, "/api/v1/batches/"+generated.BatchID+"/export?format=pdf", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RepCannotReachAdminRoutes(t *testing.T) {
	h := newTestRouter(t)
	admin := adminToken(t, h)
	_, repToken := createRep(t, h, admin, "John Roe", "another-pass")

	for _, path := range []string{"/api/v1/batches", "/api/v1/candidates", "/api/v1/dashboard/unpaid", "/api/v1/performance/agents"} {
		rec := call(t, h, http.MethodGet, path, repToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}

	rec := call(t, h, http.MethodGet, "/api/v1/dashboard/me", repToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	h := newTestRouter(t)

	rec := call(t, h, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/v1/auth/login/admin", "", auth.AdminLoginRequest{Passcode: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := adminToken(t, h)
	rec = call(t, h, http.MethodGet, "/api/v1/auth/me", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me auth.MeResponse
	decodeData(t, rec, &me)
	assert.Equal(t, "admin", me.Role)

	rec = call(t, h, http.MethodPost, "/api/v1/auth/logout", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/api/v1/auth/me", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PreviewToleratesGarbage(t *testing.T) {
	h := newTestRouter(t)
	admin := adminToken(t, h)

	rec := call(t, h, http.MethodGet, "/api/v1/work-records/preview?talk_time=01:00:00&rate_per_hour=abc&sets_added=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var preview workrecord.PreviewResponse
	decodeData(t, rec, &preview)
	assert.True(t, preview.BasePayment.IsZero(), "base %s", preview.BasePayment)
	assert.Equal(t, "01:00:00", preview.ActiveTime)

	rec = call(t, h, http.MethodGet, "/api/v1/work-records/preview?talk_time=01:00:00&rate_per_hour=10&sets_added=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &preview)
	assert.True(t, decimal.NewFromInt(30).Equal(preview.BasePayment), "base %s", preview.BasePayment)
	assert.True(t, decimal.NewFromInt(7).Equal(preview.RepsBonus), "bonus %s", preview.RepsBonus)
}

func TestRouter_EventStreamNeedsToken(t *testing.T) {
	h := newTestRouter(t)

	rec := call(t, h, http.MethodGet, "/api/v1/events/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/events/stream?token=bogus", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Invalid token"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestRouter(t)
	rec := call(t, h, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
