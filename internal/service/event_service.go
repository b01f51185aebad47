package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sigeu/internal/errors"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

var (
	errEventNotFound       = apperrors.New(apperrors.ErrNotFound, "Evento no encontrado")
	errEventNotEditable    = apperrors.New(apperrors.ErrInvalidState, "Solo se pueden editar eventos en estado borrador o pendiente de revisión")
	errEventNotDraft       = apperrors.New(apperrors.ErrInvalidState, "Solo se pueden enviar a validación eventos en estado borrador")
	errOrganizationMissing = apperrors.New(apperrors.ErrInvalidReference, "La organización externa no existe o está inactiva")
	errEventDates          = apperrors.New(apperrors.ErrValidation, "Datos de evento inválidos", "La fecha de fin debe ser posterior a la fecha de inicio")
)

// TransitionRecorder observes successful lifecycle transitions.
type TransitionRecorder interface {
	EventTransition(from, to model.EventStatus)
}

// EventService owns event registration and the event lifecycle.
type EventService interface {
	Create(ctx context.Context, in model.EventInput, ownerID uint) (*model.EventDetail, error)
	Update(ctx context.Context, id uint, patch model.EventPatch) (*model.EventDetail, error)
	SubmitForValidation(ctx context.Context, id uint, actorID uint) (*model.EventDetail, error)
	GetByID(ctx context.Context, id uint) (*model.EventDetail, error)
	List(ctx context.Context, filter model.EventFilter) ([]model.EventDetail, int64, error)
	History(ctx context.Context, id uint) ([]model.EventStatusLog, error)
}

type eventService struct {
	events   repository.EventRepository
	orgs     repository.OrganizationRepository
	recorder TransitionRecorder
	now      func() time.Time
}

// EventServiceOption configures an EventService.
type EventServiceOption func(*eventService)

// WithEventClock overrides the clock used for timestamps.
func WithEventClock(now func() time.Time) EventServiceOption {
	return func(s *eventService) { s.now = now }
}

// WithTransitionRecorder reports transitions to r.
func WithTransitionRecorder(r TransitionRecorder) EventServiceOption {
	return func(s *eventService) { s.recorder = r }
}

// NewEventService builds an EventService.
func NewEventService(events repository.EventRepository, orgs repository.OrganizationRepository, opts ...EventServiceOption) EventService {
	s := &eventService{
		events: events,
		orgs:   orgs,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new draft. The state is always borrador.
func (s *eventService) Create(ctx context.Context, in model.EventInput, ownerID uint) (*model.EventDetail, error) {
	if in.StartsAt != nil && in.EndsAt != nil && !in.StartsAt.Before(*in.EndsAt) {
		return nil, errEventDates
	}
	if err := s.checkOrganization(ctx, in.ExternalOrganizationID); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = model.DefaultCategory
	}
	cost := decimal.Zero
	if in.EntryCost != nil {
		cost = *in.EntryCost
	}

	event := &model.Event{
		Title:                  strings.TrimSpace(in.Title),
		Description:            strings.TrimSpace(in.Description),
		StartsAt:               in.StartsAt,
		EndsAt:                 in.EndsAt,
		Location:               strings.TrimSpace(in.Location),
		Capacity:               in.Capacity,
		EntryCost:              cost,
		Category:               category,
		Status:                 model.EventStatusDraft,
		OrganizerID:            ownerID,
		ExternalOrganizationID: in.ExternalOrganizationID,
		CreatedAt:              s.now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.GetByID(ctx, event.ID)
}

// Update applies the supplied fields while the event is still editable.
func (s *eventService) Update(ctx context.Context, id uint, patch model.EventPatch) (*model.EventDetail, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.Editable() {
		return nil, errEventNotEditable
	}

	trimPtr(patch.Title)
	trimPtr(patch.Description)
	trimPtr(patch.Location)
	trimPtr(patch.Category)

	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.New(apperrors.ErrNoFieldsProvided, "No se proporcionaron campos para actualizar")
	}

	start, end := current.StartsAt, current.EndsAt
	if patch.StartsAt != nil {
		start = patch.StartsAt
	}
	if patch.EndsAt != nil {
		end = patch.EndsAt
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, errEventDates
	}
	if err := s.checkOrganization(ctx, patch.ExternalOrganizationID); err != nil {
		return nil, err
	}

	ok, err := s.events.UpdateInStatus(ctx, id, model.EditableStatuses, changes, s.now())
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if !ok {
		// state changed since it was read
		if _, err := s.find(ctx, id); err != nil {
			return nil, err
		}
		return nil, errEventNotEditable
	}
	return s.GetByID(ctx, id)
}

// SubmitForValidation moves a complete draft to pendiente_revision.
// Completeness is judged on the stored record.
func (s *eventService) SubmitForValidation(ctx context.Context, id uint, actorID uint) (*model.EventDetail, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkSubmittable(current); err != nil {
		return nil, err
	}

	transition := model.StatusTransition{
		EventID: id,
		From:    model.EventStatusDraft,
		To:      model.EventStatusPendingReview,
		At:      s.now(),
		ActorID: actorID,
		Require: model.SubmissionRequirements,
	}
	ok, err := s.events.TransitionStatus(ctx, transition)
	if err != nil {
		return nil, fmt.Errorf("submit event: %w", err)
	}
	if !ok {
		// Lost a race with another submit or edit; report what the row looks like now.
		latest, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := checkSubmittable(latest); err != nil {
			return nil, err
		}
		return nil, errEventNotDraft
	}

	if s.recorder != nil {
		s.recorder.EventTransition(transition.From, transition.To)
	}
	return s.GetByID(ctx, id)
}

func checkSubmittable(event *model.Event) error {
	if !event.Status.CanTransitionTo(model.EventStatusPendingReview) {
		return errEventNotDraft
	}
	if missing := event.MissingFields(); len(missing) > 0 {
		return apperrors.New(apperrors.ErrIncompleteEvent,
			"El evento debe tener todos los campos requeridos completos antes de enviarse a validación",
			missing...)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id uint) (*model.EventDetail, error) {
	detail, err := s.events.FindDetail(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return detail, nil
}

func (s *eventService) List(ctx context.Context, filter model.EventFilter) ([]model.EventDetail, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.New(apperrors.ErrValidation, "Estado de evento inválido",
			fmt.Sprintf("estado debe ser uno de: %s, %s, %s, %s",
				model.EventStatusDraft, model.EventStatusPendingReview, model.EventStatusApproved, model.EventStatusRejected))
	}
	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) History(ctx context.Context, id uint) ([]model.EventStatusLog, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.events.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("event history: %w", err)
	}
	return logs, nil
}

func (s *eventService) find(ctx context.Context, id uint) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func (s *eventService) checkOrganization(ctx context.Context, id *uint) error {
	if id == nil || *id == 0 {
		return nil
	}
	if _, err := s.orgs.FindActiveByID(ctx, *id); err != nil {
		if isNotFound(err) {
			return errOrganizationMissing
		}
		return fmt.Errorf("find organization: %w", err)
	}
	return nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
