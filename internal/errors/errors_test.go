package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"unauthenticated", New(ErrUnauthenticated, "Token expirado"), http.StatusUnauthorized, "UNAUTHENTICATED", "Token expirado"},
		{"forbidden", ErrUnauthorized, http.StatusForbidden, "FORBIDDEN", "No tienes permisos para realizar esta acción"},
		{"validation", New(ErrValidation, "Datos inválidos", "email es obligatorio"), http.StatusBadRequest, "VALIDATION_FAILED", "Datos inválidos"},
		{"no fields", New(ErrNoFieldsProvided, ""), http.StatusBadRequest, "NO_FIELDS_PROVIDED", "No se proporcionaron campos para actualizar"},
		{"conflict", New(ErrConflict, "El email ya está registrado"), http.StatusConflict, "CONFLICT", "El email ya está registrado"},
		{"not found wrapped", fmt.Errorf("load: %w", New(ErrNotFound, "Evento no encontrado")), http.StatusNotFound, "NOT_FOUND", "Evento no encontrado"},
		{"invalid state", New(ErrInvalidState, "x"), http.StatusBadRequest, "INVALID_STATE", "x"},
		{"incomplete", New(ErrIncompleteEvent, "y"), http.StatusBadRequest, "INCOMPLETE_EVENT", "y"},
		{"invalid reference", New(ErrInvalidReference, "z"), http.StatusBadRequest, "INVALID_REFERENCE", "z"},
		{"unknown", errors.New("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno del servidor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHTTPError_ToResponse(t *testing.T) {
	incomplete := MapErrorToHTTP(New(ErrIncompleteEvent, "Faltan campos", "descripcion", "ubicacion")).ToResponse()
	assert.False(t, incomplete.Success)
	assert.Equal(t, []string{"descripcion", "ubicacion"}, incomplete.MissingFields)
	assert.Empty(t, incomplete.Errors)

	validation := MapErrorToHTTP(New(ErrValidation, "Datos inválidos", "email es obligatorio")).ToResponse()
	assert.Equal(t, []string{"email es obligatorio"}, validation.Errors)
	assert.Empty(t, validation.MissingFields)
	assert.Equal(t, "VALIDATION_FAILED", validation.Code)
}
