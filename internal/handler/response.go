package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/logger"
	"sigeu/internal/model"
)

var (
	errInvalidID   = apperrors.New(apperrors.ErrValidation, "ID inválido", "id debe ser un entero positivo")
	errInvalidBody = apperrors.New(apperrors.ErrValidation, "Cuerpo de la solicitud inválido")
)

// respond writes a success envelope.
func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, apperrors.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return err
		}
		return apperrors.New(apperrors.ErrValidation, errInvalidBody.Message, bindDetail(err))
	}
	return c.Validate(req)
}

func bindDetail(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return he.Internal.Error()
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func queryPage(c echo.Context) model.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return model.NewPage(page, limit)
}

// queryActive reads the activo filter; anything but 0/false means active.
func queryActive(c echo.Context) bool {
	switch c.QueryParam("activo") {
	case "0", "false":
		return false
	}
	return true
}

// NewErrorHandler renders every error returned by handlers and middleware as
// the failure envelope. Internal detail is attached outside production.
func NewErrorHandler(log *logger.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			resp   apperrors.Response
			he     *echo.HTTPError
		)
		if errors.As(err, &he) && !isDomainError(err) {
			status, resp = fromEchoError(he)
		} else {
			httpErr := apperrors.MapErrorToHTTP(err)
			status, resp = httpErr.StatusCode, httpErr.ToResponse()
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("request failed")
			if exposeDetail {
				resp.Error = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func isDomainError(err error) bool {
	var domainErr *apperrors.Error
	return errors.As(err, &domainErr)
}

func fromEchoError(he *echo.HTTPError) (int, apperrors.Response) {
	resp := apperrors.Response{Success: false}
	switch he.Code {
	case http.StatusNotFound:
		resp.Message, resp.Code = "Ruta no encontrada", "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		resp.Message, resp.Code = "Método no permitido", "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		resp.Message, resp.Code = "El cuerpo de la solicitud es demasiado grande", "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		resp.Message, resp.Code = "Demasiadas solicitudes, intenta de nuevo más tarde", "RATE_LIMITED"
	case http.StatusUnauthorized:
		resp.Message, resp.Code = "No autenticado", "UNAUTHENTICATED"
	case http.StatusForbidden:
		resp.Message, resp.Code = "No tienes permisos para realizar esta acción", "FORBIDDEN"
	default:
		if he.Code >= http.StatusInternalServerError {
			resp.Message, resp.Code = "Error interno del servidor", "INTERNAL_ERROR"
		} else {
			resp.Message, resp.Code = fmt.Sprint(he.Message), "BAD_REQUEST"
		}
	}
	return he.Code, resp
}
