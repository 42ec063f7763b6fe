package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"livest/internal/common/auth"
	"livest/internal/common/config"
	"livest/internal/common/database"
	"livest/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSessions map[string]*auth.Principal

func (s staticSessions) Lookup(_ context.Context, token string) (*auth.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return nil, auth.ErrSessionNotFound
}

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Auth.CookieName = "livest.session_token"

	h := New(Dependencies{
		Config: cfg,
		DB:     database.NewPostgresFromDB(db),
		Sessions: staticSessions{
			"tenant-token":  {UserID: "t1", Role: auth.RoleTenant},
			"manager-token": {UserID: "m1", Role: auth.RoleManager},
		},
		Logger:         logger.NewTestLogger(t),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return h, mock
}

func send(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := send(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Ready(t *testing.T) {
	h, mock := newTestRouter(t)

	mock.ExpectPing()
	assert.Equal(t, http.StatusOK, send(h, http.MethodGet, "/ready", "").Code)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec := send(h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(t)
	send(h, http.MethodGet, "/health", "")

	rec := send(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "livest_http_requests_total")
}

func TestRouter_Preflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/applications", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_UnknownOriginGetsNoCORSHeaders(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SessionGating(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"applications anonymous", http.MethodGet, "/applications", "", http.StatusUnauthorized},
		{"unknown token is anonymous", http.MethodGet, "/leases", "stale", http.StatusUnauthorized},
		{"own properties before property id", http.MethodGet, "/properties/me", "", http.StatusUnauthorized},
		{"own properties as tenant", http.MethodGet, "/properties/me", "tenant-token", http.StatusForbidden},
		{"create property as tenant", http.MethodPost, "/properties", "tenant-token", http.StatusForbidden},
		{"decide as tenant", http.MethodPatch, "/applications/a1", "tenant-token", http.StatusForbidden},
		{"favorites anonymous", http.MethodPost, "/users/favorites", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestRouter(t)
			rec := send(h, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.want, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRouter_SearchIsPublic(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := send(h, http.MethodGet, "/search?beds=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "beds must be a number")
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := send(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, rec.Body.String())

	rec = send(h, http.MethodDelete, "/search", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_DecisionOnlyAcceptsPatch(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := send(h, http.MethodPut, "/applications/a1/status", "manager-token")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(h, http.MethodPut, "/applications/a1", "manager-token")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
