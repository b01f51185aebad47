package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"sigeu/internal/model"
	"sigeu/internal/service"
)

// OrganizationHandler serves /api/organizations.
type OrganizationHandler struct {
	svc service.OrganizationService
}

// NewOrganizationHandler creates an organization handler.
func NewOrganizationHandler(svc service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

// OrganizationRequest registers an organization.
type OrganizationRequest struct {
	Nombre           string  `json:"nombre" validate:"required,tmin=2,max=255"`
	Email            *string `json:"email" validate:"omitempty,email,max=255"`
	Telefono         *string `json:"telefono" validate:"omitempty,min=7,max=20"`
	Direccion        *string `json:"direccion" validate:"omitempty,max=255"`
	Descripcion      *string `json:"descripcion"`
	TipoOrganizacion string  `json:"tipo_organizacion" validate:"omitempty,max=100"`
}

// OrganizationPatchRequest is a partial organization update.
type OrganizationPatchRequest struct {
	Nombre           *string `json:"nombre" validate:"omitempty,tmin=2,max=255"`
	Email            *string `json:"email" validate:"omitempty,email,max=255"`
	Telefono         *string `json:"telefono" validate:"omitempty,min=7,max=20"`
	Direccion        *string `json:"direccion" validate:"omitempty,max=255"`
	Descripcion      *string `json:"descripcion"`
	TipoOrganizacion *string `json:"tipo_organizacion" validate:"omitempty,tmin=1,max=100"`
	Activo           *bool   `json:"activo"`
}

// Create godoc
// @Summary Register an external organization
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OrganizationRequest true "Organization data"
// @Success 201 {object} errors.Response{data=model.Organization}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c echo.Context) error {
	var req OrganizationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	org, err := h.svc.Create(c.Request().Context(), service.OrganizationInput{
		Name:        req.Nombre,
		Email:       req.Email,
		Phone:       req.Telefono,
		Address:     req.Direccion,
		Description: req.Descripcion,
		Type:        req.TipoOrganizacion,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Organización creada exitosamente", echo.Map{"organization": org})
}

// Search godoc
// @Summary Search organizations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param nombre query string false "Name substring"
// @Param tipo_organizacion query string false "Exact type"
// @Param activo query string false "1 (default) or 0"
// @Success 200 {object} errors.Response
// @Router /organizations/search [get]
func (h *OrganizationHandler) Search(c echo.Context) error {
	orgs, total, err := h.svc.Search(c.Request().Context(), model.OrganizationFilter{
		Name:   c.QueryParam("nombre"),
		Type:   c.QueryParam("tipo_organizacion"),
		Active: queryActive(c),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Búsqueda completada", echo.Map{
		"organizations": orgs,
		"total":         total,
	})
}

// List godoc
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param activo query string false "1 (default) or 0"
// @Success 200 {object} errors.Response
// @Router /organizations [get]
func (h *OrganizationHandler) List(c echo.Context) error {
	page := queryPage(c)
	orgs, total, err := h.svc.List(c.Request().Context(), model.OrganizationFilter{
		Active: queryActive(c),
		Page:   page,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Organizaciones obtenidas", echo.Map{
		"organizations": orgs,
		"pagination":    model.NewPagination(page, total),
	})
}

// Get godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Organization ID"
// @Success 200 {object} errors.Response{data=model.Organization}
// @Failure 404 {object} errors.Response
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	org, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Organización obtenida", echo.Map{"organization": org})
}

// Update godoc
// @Summary Update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Organization ID"
// @Param request body OrganizationPatchRequest true "Fields to change"
// @Success 200 {object} errors.Response{data=model.Organization}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /organizations/{id} [put]
func (h *OrganizationHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req OrganizationPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	org, err := h.svc.Update(c.Request().Context(), id, model.OrganizationPatch{
		Name:        req.Nombre,
		Email:       req.Email,
		Phone:       req.Telefono,
		Address:     req.Direccion,
		Description: req.Descripcion,
		Type:        trimmed(req.TipoOrganizacion),
		Active:      req.Activo,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Organización actualizada exitosamente", echo.Map{"organization": org})
}

// Delete godoc
// @Summary Deactivate an organization
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Organization ID"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /organizations/{id} [delete]
func (h *OrganizationHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Organización externa eliminada exitosamente", echo.Map{
		"id":     id,
		"estado": "inactiva",
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
