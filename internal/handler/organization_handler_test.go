package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/model"
	"sigeu/internal/service"
)

func newOrganizationTestServer(svc *MockOrganizationService) *echo.Echo {
	e := newTestEcho(false)
	h := NewOrganizationHandler(svc)
	g := e.Group("/api/organizations", as(admin))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return e
}

func TestOrganizationHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockOrganizationService)
		wantStatus int
		wantCode   string
		wantErrors []string
	}{
		{
			name: "valid organization",
			body: `{"nombre":"Fundación Luz","email":"contacto@luz.org","tipo_organizacion":"ONG"}`,
			setupMock: func(m *MockOrganizationService) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(in service.OrganizationInput) bool {
					return in.Name == "Fundación Luz" && *in.Email == "contacto@luz.org" && in.Type == "ONG"
				})).Return(&model.Organization{ID: 1, Name: "Fundación Luz", Active: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name and bad email",
			body:       `{"email":"no-es-email"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantErrors: []string{"nombre es obligatorio", "email debe ser un email válido"},
		},
		{
			name:       "short phone",
			body:       `{"nombre":"Club Azul","telefono":"123"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantErrors: []string{"telefono debe tener al menos 7 caracteres"},
		},
		{
			name: "duplicate name",
			body: `{"nombre":"Club Azul"}`,
			setupMock: func(m *MockOrganizationService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, apperrors.New(apperrors.ErrConflict, "Ya existe una organización con ese nombre"))
			},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "malformed JSON",
			body:       `{"nombre":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrganizationService)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec, resp := doJSON(t, newOrganizationTestServer(svc), http.MethodPost, "/api/organizations", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantErrors != nil {
				assert.ElementsMatch(t, tt.wantErrors, resp.Errors)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestOrganizationHandler_Search(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		filter model.OrganizationFilter
	}{
		{
			name:   "active by default",
			query:  "?nombre=luz",
			filter: model.OrganizationFilter{Name: "luz", Active: true},
		},
		{
			name:   "inactive with type",
			query:  "?tipo_organizacion=ONG&activo=0",
			filter: model.OrganizationFilter{Type: "ONG", Active: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrganizationService)
			svc.On("Search", mock.Anything, tt.filter).
				Return([]model.Organization{{ID: 1, Name: "Fundación Luz"}}, int64(1), nil)

			rec, resp := doJSON(t, newOrganizationTestServer(svc), http.MethodGet, "/api/organizations/search"+tt.query, "")

			require.Equal(t, http.StatusOK, rec.Code)
			data := dataMap(t, resp)
			assert.EqualValues(t, 1, data["total"])
			assert.Len(t, data["organizations"], 1)
			svc.AssertExpectations(t)
		})
	}
}

func TestOrganizationHandler_Update_TrimsType(t *testing.T) {
	svc := new(MockOrganizationService)
	svc.On("Update", mock.Anything, uint(4), mock.MatchedBy(func(p model.OrganizationPatch) bool {
		return p.Type != nil && *p.Type == "Empresa" && p.Active != nil && !*p.Active
	})).Return(&model.Organization{ID: 4, Type: "Empresa"}, nil)

	rec, _ := doJSON(t, newOrganizationTestServer(svc), http.MethodPut, "/api/organizations/4",
		`{"tipo_organizacion":"  Empresa ","activo":false}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOrganizationHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "active organization", wantStatus: http.StatusOK},
		{
			name:       "already inactive",
			err:        apperrors.New(apperrors.ErrInvalidState, "La organización ya está inactiva"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_STATE",
		},
		{
			name:       "unknown organization",
			err:        apperrors.New(apperrors.ErrNotFound, "Organización no encontrada"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrganizationService)
			svc.On("Delete", mock.Anything, uint(4)).Return(tt.err)

			rec, resp := doJSON(t, newOrganizationTestServer(svc), http.MethodDelete, "/api/organizations/4", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.err == nil {
				data := dataMap(t, resp)
				assert.EqualValues(t, 4, data["id"])
				assert.Equal(t, "inactiva", data["estado"])
			}
			svc.AssertExpectations(t)
		})
	}
}
