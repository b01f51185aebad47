package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"sigeu/internal/auth"
	apperrors "sigeu/internal/errors"
	"sigeu/internal/logger"
	"sigeu/internal/middleware"
	"sigeu/internal/model"
)

var (
	organizer = &model.User{ID: 3, Email: "ana@example.com", FirstName: "Ana", LastName: "Ruiz", Role: model.RoleOrganizador, Active: true}
	admin     = &model.User{ID: 1, Email: "admin@example.com", FirstName: "Root", LastName: "Admin", Role: model.RoleAdmin, Active: true}
)

func newTestEcho(exposeDetail bool) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger.Nop(), exposeDetail)
	return e
}

// as authenticates every request of a route as user.
func as(user *model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetIdentity(c, user, &auth.Claims{
				UserID:           user.ID,
				Email:            user.Email,
				Role:             user.Role,
				RegisteredClaims: jwt.RegisteredClaims{ID: "test-jti"},
			})
			return next(c)
		}
	}
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, apperrors.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp apperrors.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func dataMap(t *testing.T, resp apperrors.Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is an object")
	return m
}
