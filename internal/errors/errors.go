package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when a request carries no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized is returned when the identity's role is not allowed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation is returned when input fields are malformed or missing.
	ErrValidation = errors.New("validation failed")
	// ErrNoFieldsProvided is returned by partial updates with an empty change set.
	ErrNoFieldsProvided = errors.New("no fields provided")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when the operation is not allowed in the current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrIncompleteEvent is returned when submission is blocked by missing persisted fields.
	ErrIncompleteEvent = errors.New("incomplete event")
	// ErrInvalidReference is returned when a foreign reference is dangling or inactive.
	ErrInvalidReference = errors.New("invalid reference")
)

// Error is a domain failure carrying a user facing message and optional details.
type Error struct {
	Kind    error
	Message string
	Details []string
}

// New creates a domain error of the given kind.
func New(kind error, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	Data          interface{} `json:"data,omitempty"`
	Errors        []string    `json:"errors,omitempty"`
	MissingFields []string    `json:"missingFields,omitempty"`
	Code          string      `json:"code,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToResponse converts an HTTPError to the failure envelope.
func (e *HTTPError) ToResponse() Response {
	resp := Response{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
	if e.Code == "INCOMPLETE_EVENT" {
		resp.MissingFields = e.Details
	} else {
		resp.Errors = e.Details
	}
	return resp
}

var mappings = []struct {
	kind    error
	status  int
	code    string
	message string
}{
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "No autenticado"},
	{ErrUnauthorized, http.StatusForbidden, "FORBIDDEN", "No tienes permisos para realizar esta acción"},
	{ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED", "Datos de entrada inválidos"},
	{ErrNoFieldsProvided, http.StatusBadRequest, "NO_FIELDS_PROVIDED", "No se proporcionaron campos para actualizar"},
	{ErrConflict, http.StatusConflict, "CONFLICT", "El recurso ya existe"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Recurso no encontrado"},
	{ErrInvalidState, http.StatusBadRequest, "INVALID_STATE", "Operación no permitida en el estado actual"},
	{ErrIncompleteEvent, http.StatusBadRequest, "INCOMPLETE_EVENT", "El evento no tiene todos los campos requeridos"},
	{ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE", "Referencia inválida"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		httpErr := NewHTTPError(m.status, m.message, m.code)
		var domainErr *Error
		if errors.As(err, &domainErr) {
			if domainErr.Message != "" {
				httpErr.Message = domainErr.Message
			}
			httpErr.Details = domainErr.Details
		}
		return httpErr
	}
	return NewHTTPError(http.StatusInternalServerError, "Error interno del servidor", "INTERNAL_ERROR")
}
