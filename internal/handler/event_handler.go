package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/middleware"
	"sigeu/internal/model"
	"sigeu/internal/service"
)

// EventHandler serves /api/events.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates an event handler.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// EventRequest creates a draft. Only the title is needed up front; the rest
// is checked when the draft is submitted.
type EventRequest struct {
	Titulo                string           `json:"titulo" validate:"required,tmin=3,max=255"`
	Descripcion           string           `json:"descripcion"`
	FechaInicio           *time.Time       `json:"fecha_inicio" swaggertype:"string" format:"date-time"`
	FechaFin              *time.Time       `json:"fecha_fin" swaggertype:"string" format:"date-time"`
	Ubicacion             string           `json:"ubicacion" validate:"max=255"`
	CapacidadMaxima       *int             `json:"capacidad_maxima" validate:"omitempty,min=1"`
	CostoEntrada          *decimal.Decimal `json:"costo_entrada" validate:"omitempty,min=0" swaggertype:"number"`
	Categoria             string           `json:"categoria" validate:"max=100"`
	OrganizacionExternaID *uint            `json:"organizacion_externa_id" validate:"omitempty,min=1"`
}

// EventPatchRequest is a partial event update.
type EventPatchRequest struct {
	Titulo                *string          `json:"titulo" validate:"omitempty,tmin=3,max=255"`
	Descripcion           *string          `json:"descripcion"`
	FechaInicio           *time.Time       `json:"fecha_inicio" swaggertype:"string" format:"date-time"`
	FechaFin              *time.Time       `json:"fecha_fin" swaggertype:"string" format:"date-time"`
	Ubicacion             *string          `json:"ubicacion" validate:"omitempty,max=255"`
	CapacidadMaxima       *int             `json:"capacidad_maxima" validate:"omitempty,min=1"`
	CostoEntrada          *decimal.Decimal `json:"costo_entrada" validate:"omitempty,min=0" swaggertype:"number"`
	Categoria             *string          `json:"categoria" validate:"omitempty,tmin=1,max=100"`
	OrganizacionExternaID *uint            `json:"organizacion_externa_id" validate:"omitempty,min=0"` // 0 detaches the organization
}

// Create godoc
// @Summary Create an event draft
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event data"
// @Success 201 {object} errors.Response{data=model.EventDetail}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	var req EventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Create(c.Request().Context(), model.EventInput{
		Title:                  req.Titulo,
		Description:            req.Descripcion,
		StartsAt:               req.FechaInicio,
		EndsAt:                 req.FechaFin,
		Location:               req.Ubicacion,
		Capacity:               req.CapacidadMaxima,
		EntryCost:              req.CostoEntrada,
		Category:               req.Categoria,
		ExternalOrganizationID: req.OrganizacionExternaID,
	}, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Evento creado exitosamente", echo.Map{"event": event})
}

// Update godoc
// @Summary Edit an event before validation
// @Description Omitted or null fields keep their value; organizacion_externa_id 0 clears the organization.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body EventPatchRequest true "Fields to change"
// @Success 200 {object} errors.Response{data=model.EventDetail}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req EventPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.svc.Update(c.Request().Context(), id, model.EventPatch{
		Title:                  req.Titulo,
		Description:            req.Descripcion,
		StartsAt:               req.FechaInicio,
		EndsAt:                 req.FechaFin,
		Location:               req.Ubicacion,
		Capacity:               req.CapacidadMaxima,
		EntryCost:              req.CostoEntrada,
		Category:               req.Categoria,
		ExternalOrganizationID: req.OrganizacionExternaID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Evento actualizado exitosamente", echo.Map{"event": event})
}

// Submit godoc
// @Summary Submit a draft for validation
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} errors.Response{data=model.EventDetail}
// @Failure 400 {object} errors.Response "INVALID_STATE or INCOMPLETE_EVENT with missingFields"
// @Failure 404 {object} errors.Response
// @Router /events/{id}/submit-validation [post]
func (h *EventHandler) Submit(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	event, err := h.svc.SubmitForValidation(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Evento enviado a validación exitosamente", echo.Map{"event": event})
}

// List godoc
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param estado query string false "borrador, pendiente_revision, aprobado or rechazado"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	page := queryPage(c)
	events, total, err := h.svc.List(c.Request().Context(), model.EventFilter{
		Status: model.EventStatus(c.QueryParam("estado")),
		Page:   page,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Eventos obtenidos", echo.Map{
		"events":     events,
		"pagination": model.NewPagination(page, total),
	})
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} errors.Response{data=model.EventDetail}
// @Failure 404 {object} errors.Response
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	event, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Evento obtenido", echo.Map{"event": event})
}

// History godoc
// @Summary Lifecycle history of an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} errors.Response{data=[]model.EventStatusLog}
// @Failure 404 {object} errors.Response
// @Router /events/{id}/history [get]
func (h *EventHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	logs, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Historial del evento", echo.Map{"history": logs})
}
