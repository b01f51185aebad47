package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sigeu/internal/model"
)

// EventRepository defines persistence operations for events and their status log.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	FindDetail(ctx context.Context, id uint) (*model.EventDetail, error)
	List(ctx context.Context, filter model.EventFilter) ([]model.EventDetail, int64, error)
	UpdateInStatus(ctx context.Context, id uint, allowed []model.EventStatus, changes map[string]interface{}, at time.Time) (bool, error)
	TransitionStatus(ctx context.Context, t model.StatusTransition) (bool, error)
	History(ctx context.Context, eventID uint) ([]model.EventStatusLog, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts the event and its initial status log entry in one transaction.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		actor := event.OrganizerID
		return tx.Create(&model.EventStatusLog{
			EventID:  event.ID,
			ToStatus: event.Status,
			ActorID:  &actor,
		}).Error
	})
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("eventos e").
		Select(`e.*,
			u.nombre AS organizador_nombre,
			u.apellido AS organizador_apellido,
			u.email AS organizador_email,
			o.nombre AS organizacion_nombre,
			o.email AS organizacion_email`).
		Joins("LEFT JOIN usuarios u ON u.id = e.organizador_id").
		Joins("LEFT JOIN organizaciones_externas o ON o.id = e.organizacion_externa_id")
}

func (r *eventRepository) FindDetail(ctx context.Context, id uint) (*model.EventDetail, error) {
	var detail model.EventDetail
	if err := r.detailQuery(ctx).Where("e.id = ?", id).Take(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *eventRepository) List(ctx context.Context, filter model.EventFilter) ([]model.EventDetail, int64, error) {
	var (
		details []model.EventDetail
		total   int64
	)

	count := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.Status != "" {
		count = count.Where("estado = ?", filter.Status)
	}
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.detailQuery(ctx)
	if filter.Status != "" {
		q = q.Where("e.estado = ?", filter.Status)
	}
	if err := q.Order("e.fecha_creacion DESC").
		Order("e.id DESC").
		Limit(filter.Page.Size).
		Offset(filter.Page.Offset()).
		Find(&details).Error; err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// UpdateInStatus applies changes only while the event is in one of the allowed
// states. It reports false when no row matched.
func (r *eventRepository) UpdateInStatus(ctx context.Context, id uint, allowed []model.EventStatus, changes map[string]interface{}, at time.Time) (bool, error) {
	changes["fecha_actualizacion"] = at
	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ? AND estado IN ?", id, allowed).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TransitionStatus moves an event from t.From to t.To with a single
// conditional UPDATE and logs the step in the same transaction. It reports
// false when the event was not in t.From or failed one of t.Require.
func (r *eventRepository) TransitionStatus(ctx context.Context, t model.StatusTransition) (bool, error) {
	changes := map[string]interface{}{
		"estado":              t.To,
		"fecha_actualizacion": t.At,
	}
	if t.To == model.EventStatusPendingReview {
		changes["fecha_envio_validacion"] = t.At
	}

	matched := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Event{}).Where("id = ? AND estado = ?", t.EventID, t.From)
		for _, req := range t.Require {
			q = requireContent(q, req)
		}
		res := q.Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		matched = true

		from := t.From
		entry := &model.EventStatusLog{
			EventID:    t.EventID,
			FromStatus: &from,
			ToStatus:   t.To,
		}
		if t.ActorID != 0 {
			actor := t.ActorID
			entry.ActorID = &actor
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}

// requireContent adds the SQL form of a submission requirement. Column names
// come from model.SubmissionRequirements, never from input.
func requireContent(q *gorm.DB, req model.RequiredField) *gorm.DB {
	if req.MinChars > 0 {
		return q.Where(fmt.Sprintf("CHAR_LENGTH(TRIM(COALESCE(%s, ''))) >= ?", req.Column), req.MinChars)
	}
	return q.Where(fmt.Sprintf("%s IS NOT NULL", req.Column))
}

func (r *eventRepository) History(ctx context.Context, eventID uint) ([]model.EventStatusLog, error) {
	var logs []model.EventStatusLog
	if err := r.db.WithContext(ctx).
		Where("evento_id = ?", eventID).
		Order("fecha ASC").
		Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
