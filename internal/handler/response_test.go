package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sigeu/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		exposeDetail bool
		method       string
		path         string
		wantStatus   int
		wantCode     string
		wantMessage  string
		wantDetail   string
	}{
		{
			name:        "unknown route",
			method:      http.MethodGet,
			path:        "/api/nope",
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Ruta no encontrada",
		},
		{
			name:        "wrong method",
			method:      http.MethodDelete,
			path:        "/boom",
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "METHOD_NOT_ALLOWED",
			wantMessage: "Método no permitido",
		},
		{
			name:        "internal failure hides detail in production",
			method:      http.MethodGet,
			path:        "/boom",
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_ERROR",
			wantMessage: "Error interno del servidor",
		},
		{
			name:         "internal failure shows detail in development",
			exposeDetail: true,
			method:       http.MethodGet,
			path:         "/boom",
			wantStatus:   http.StatusInternalServerError,
			wantCode:     "INTERNAL_ERROR",
			wantMessage:  "Error interno del servidor",
			wantDetail:   "connection reset",
		},
		{
			name:        "domain error keeps its message",
			method:      http.MethodGet,
			path:        "/forbidden",
			wantStatus:  http.StatusForbidden,
			wantCode:    "FORBIDDEN",
			wantMessage: "No tienes permisos para realizar esta acción",
		},
		{
			name:        "echo error",
			method:      http.MethodGet,
			path:        "/limited",
			wantStatus:  http.StatusTooManyRequests,
			wantCode:    "RATE_LIMITED",
			wantMessage: "Demasiadas solicitudes, intenta de nuevo más tarde",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(tt.exposeDetail)
			e.GET("/boom", func(c echo.Context) error { return errors.New("connection reset") })
			e.GET("/forbidden", func(c echo.Context) error { return apperrors.ErrUnauthorized })
			e.GET("/limited", func(c echo.Context) error { return echo.ErrTooManyRequests })

			rec, resp := doJSON(t, e, tt.method, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantDetail, resp.Error)
		})
	}
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&EventRequest{Titulo: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, []string{"titulo es obligatorio"}, domainErr.Details)

	assert.NoError(t, v.Validate(&EventRequest{Titulo: " Día "}))
}

func TestHealthHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name       string
		database   Pinger
		redis      Pinger
		wantStatus int
		wantDB     string
		wantRedis  string
	}{
		{name: "all up", database: up, redis: up, wantStatus: http.StatusOK, wantDB: "up", wantRedis: "up"},
		{name: "redis disabled", database: up, wantStatus: http.StatusOK, wantDB: "up", wantRedis: "disabled"},
		{name: "redis down is degraded but serving", database: up, redis: down, wantStatus: http.StatusOK, wantDB: "up", wantRedis: "down"},
		{name: "database down", database: down, redis: up, wantStatus: http.StatusServiceUnavailable, wantDB: "down", wantRedis: "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(false)
			h := NewHealthHandler(tt.database, tt.redis, "test")
			e.GET("/health", h.Health)

			rec, resp := doJSON(t, e, http.MethodGet, "/health", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			data := dataMap(t, resp)
			assert.Equal(t, tt.wantDB, data["database"])
			assert.Equal(t, tt.wantRedis, data["redis"])
		})
	}
}
