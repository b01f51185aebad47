package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/middleware"
	"sigeu/internal/model"
	"sigeu/internal/service"
)

// UserHandler serves the admin user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserStatusRequest toggles a user's access.
type UserStatusRequest struct {
	Activo *bool `json:"activo" validate:"required"`
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Usuario obtenido", echo.Map{"user": user})
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} errors.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page := queryPage(c)
	users, total, err := h.svc.ListUsers(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Usuarios obtenidos", echo.Map{
		"users":      users,
		"pagination": model.NewPagination(page, total),
	})
}

// SetStatus godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UserStatusRequest true "New status"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id}/status [patch]
func (h *UserHandler) SetStatus(c echo.Context) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UserStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.SetActive(c.Request().Context(), actor.ID, id, *req.Activo)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Estado del usuario actualizado", echo.Map{"user": user})
}
