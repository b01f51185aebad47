package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/logger"
	"sigeu/internal/middleware"
	"sigeu/internal/model"
	"sigeu/internal/service"
)

const forgotPasswordMessage = "Si el email está registrado, recibirás instrucciones para restablecer tu contraseña"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService      service.AuthService
	log              *logger.Logger
	exposeResetToken bool
}

// NewAuthHandler creates a new auth handler. exposeResetToken echoes reset
// tokens in responses and must stay off in production.
func NewAuthHandler(authService service.AuthService, log *logger.Logger, exposeResetToken bool) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{authService: authService, log: log, exposeResetToken: exposeResetToken}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Nombre   string  `json:"nombre" validate:"required,tmin=2,max=100"`
	Apellido string  `json:"apellido" validate:"required,tmin=2,max=100"`
	Telefono *string `json:"telefono" validate:"omitempty,min=7,max=20"`
	Rol      string  `json:"rol" validate:"omitempty,oneof=admin organizador"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is a partial profile update.
type ProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Nombre   *string `json:"nombre" validate:"omitempty,tmin=2,max=100"`
	Apellido *string `json:"apellido" validate:"omitempty,tmin=2,max=100"`
	Telefono *string `json:"telefono" validate:"omitempty,min=7,max=20"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,maxbytes=72"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=service.Session}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.Nombre,
		LastName:  req.Apellido,
		Phone:     req.Telefono,
		Role:      model.Role(req.Rol),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Usuario registrado exitosamente", session)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=service.Session}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login exitoso", session)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 401 {object} errors.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	return respond(c, http.StatusOK, "Usuario actual", echo.Map{"user": user})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Fields to change"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, model.UserPatch{
		Email:     req.Email,
		FirstName: req.Nombre,
		LastName:  req.Apellido,
		Phone:     req.Telefono,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Perfil actualizado exitosamente", echo.Map{"user": updated})
}

// ForgotPassword godoc
// @Summary Request a password reset email
// @Description Always answers 200 so registered emails cannot be probed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("forgot password")
		return respond(c, http.StatusOK, forgotPasswordMessage, nil)
	}

	var data interface{}
	if h.exposeResetToken && token != "" {
		data = echo.Map{"resetToken": token}
	}
	return respond(c, http.StatusOK, forgotPasswordMessage, data)
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Contraseña restablecida exitosamente", nil)
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented session token until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Sesión cerrada exitosamente", nil)
}
