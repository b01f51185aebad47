package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sigeu/internal/auth"
	"sigeu/internal/cache"
	"sigeu/internal/config"
	apperrors "sigeu/internal/errors"
	"sigeu/internal/handler"
	"sigeu/internal/logger"
	"sigeu/internal/metrics"
	authmw "sigeu/internal/middleware"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

// stubUsers resolves identities for the auth gate; nothing else is reached.
type stubUsers struct {
	repository.UserRepository
	byID map[uint]*model.User
}

func (s *stubUsers) FindActiveByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := s.byID[id]; ok && u.Active {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type testServer struct {
	e   *echo.Echo
	jwt *auth.JWTService
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	redis := cache.New(mr.Addr(), "", 0)

	jwtService := auth.NewJWTService("router-secret", time.Hour)
	users := &stubUsers{byID: map[uint]*model.User{
		1: {ID: 1, Email: "admin@example.com", Role: model.RoleAdmin, Active: true},
		3: {ID: 3, Email: "ana@example.com", Role: model.RoleOrganizador, Active: true},
	}}
	log := logger.Nop()

	up := func(context.Context) error { return nil }
	e := echo.New()
	Register(e, cfg, Deps{
		Log:           log,
		Cache:         redis,
		Metrics:       metrics.New(),
		Authenticator: authmw.NewAuthenticator(jwtService, auth.NewTokenStore(redis), users, log),
	}, Handlers{
		Auth:         handler.NewAuthHandler(nil, log, false),
		Event:        handler.NewEventHandler(nil),
		Organization: handler.NewOrganizationHandler(nil),
		User:         handler.NewUserHandler(nil),
		Health:       handler.NewHealthHandler(up, redis.Ping, "test"),
	})
	return &testServer{e: e, jwt: jwtService}
}

func testConfig() *config.Config {
	return &config.Config{
		Env:             config.EnvDevelopment,
		FrontendURL:     "http://localhost:3000",
		BodyLimit:       "1K",
		RateLimitMax:    100,
		RateLimitWindow: time.Minute,
	}
}

func (s *testServer) token(t *testing.T, id uint, role model.Role) string {
	t.Helper()
	token, err := s.jwt.IssueSession(&model.User{ID: id, Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, apperrors.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp apperrors.Response
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRegister_AccessControl(t *testing.T) {
	s := newTestServer(t, testConfig())
	organizer := s.token(t, 3, model.RoleOrganizador)

	tests := []struct {
		name        string
		method      string
		path        string
		token       string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "events need a session",
			method:      http.MethodGet,
			path:        "/api/events",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token no proporcionado",
		},
		{
			name:        "profile needs a session",
			method:      http.MethodGet,
			path:        "/api/auth/me",
			token:       "garbage",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token inválido",
		},
		{
			name:        "organizer cannot delete organizations",
			method:      http.MethodDelete,
			path:        "/api/organizations/1",
			token:       organizer,
			wantStatus:  http.StatusForbidden,
			wantMessage: "No tienes permisos para realizar esta acción",
		},
		{
			name:        "organizer cannot administer users",
			method:      http.MethodGet,
			path:        "/api/users",
			token:       organizer,
			wantStatus:  http.StatusForbidden,
			wantMessage: "No tienes permisos para realizar esta acción",
		},
		{
			name:        "unknown user in token",
			method:      http.MethodGet,
			path:        "/api/events",
			token:       s.token(t, 42, model.RoleAdmin),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Usuario no encontrado o inactivo",
		},
		{
			name:        "unknown route",
			method:      http.MethodGet,
			path:        "/api/nothing-here",
			wantStatus:  http.StatusNotFound,
			wantMessage: "Ruta no encontrada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.do(t, tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestRegister_PublicRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec, resp := s.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec, _ = s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sigeu_http_requests_total")
}

func TestRegister_RejectsOversizedBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	body := `{"email":"` + strings.Repeat("a", 2048) + `@example.com","password":"x"}`
	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Code)
}

func TestRegister_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	s := newTestServer(t, cfg)

	for i := 0; i < cfg.RateLimitMax; i++ {
		rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION_FAILED", resp.Code)
	}

	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", resp.Code)

	// routes outside /api are not limited
	rec, _ = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
