package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft         EventStatus = "borrador"
	EventStatusPendingReview EventStatus = "pendiente_revision"
	EventStatusApproved      EventStatus = "aprobado"
	EventStatusRejected      EventStatus = "rechazado"
)

// eventTransitions lists every allowed state change. Approval and rejection
// are reserved for a review flow that does not exist yet.
var eventTransitions = map[EventStatus]map[EventStatus]struct{}{
	EventStatusDraft: {
		EventStatusPendingReview: {},
	},
}

// EditableStatuses are the states in which event fields may still change.
var EditableStatuses = []EventStatus{EventStatusDraft, EventStatusPendingReview}

// Valid reports whether s is a known state.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPendingReview, EventStatusApproved, EventStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	targets, ok := eventTransitions[s]
	if !ok {
		return false
	}
	_, ok = targets[next]
	return ok
}

// Editable reports whether an event in state s accepts field edits.
func (s EventStatus) Editable() bool {
	for _, st := range EditableStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Event is an activity proposed by an organizer.
type Event struct {
	ID                     uint            `json:"id" gorm:"primaryKey"`
	Title                  string          `json:"titulo" gorm:"column:titulo;size:255;not null"`
	Description            string          `json:"descripcion" gorm:"column:descripcion;type:text"`
	StartsAt               *time.Time      `json:"fecha_inicio" gorm:"column:fecha_inicio"`
	EndsAt                 *time.Time      `json:"fecha_fin" gorm:"column:fecha_fin"`
	Location               string          `json:"ubicacion" gorm:"column:ubicacion;size:255"`
	Capacity               *int            `json:"capacidad_maxima" gorm:"column:capacidad_maxima"`
	EntryCost              decimal.Decimal `json:"costo_entrada" gorm:"column:costo_entrada;type:decimal(10,2);not null;default:0"`
	Category               string          `json:"categoria" gorm:"column:categoria;size:100;not null;default:'General'"`
	Status                 EventStatus     `json:"estado" gorm:"column:estado;size:30;not null;default:'borrador';index"`
	OrganizerID            uint            `json:"organizador_id" gorm:"column:organizador_id;not null;index"`
	ExternalOrganizationID *uint           `json:"organizacion_externa_id" gorm:"column:organizacion_externa_id;index"`
	CreatedAt              time.Time       `json:"fecha_creacion" gorm:"column:fecha_creacion;autoCreateTime;index"`
	SubmittedAt            *time.Time      `json:"fecha_envio_validacion" gorm:"column:fecha_envio_validacion"`
	UpdatedAt              *time.Time      `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName pins the Spanish table name.
func (Event) TableName() string { return "eventos" }

// EventDetail is an event joined with organizer and organization display fields.
type EventDetail struct {
	Event
	OrganizerFirstName string  `json:"organizador_nombre" gorm:"column:organizador_nombre"`
	OrganizerLastName  string  `json:"organizador_apellido" gorm:"column:organizador_apellido"`
	OrganizerEmail     string  `json:"organizador_email" gorm:"column:organizador_email"`
	OrganizationName   *string `json:"organizacion_nombre" gorm:"column:organizacion_nombre"`
	OrganizationEmail  *string `json:"organizacion_email" gorm:"column:organizacion_email"`
}

// RequiredField is a column that must hold content before submission.
type RequiredField struct {
	Column   string
	MinChars int // 0 for timestamps
}

// SubmissionRequirements are checked against the stored record on submit.
var SubmissionRequirements = []RequiredField{
	{Column: "titulo", MinChars: 3},
	{Column: "descripcion", MinChars: 10},
	{Column: "fecha_inicio"},
	{Column: "fecha_fin"},
	{Column: "ubicacion", MinChars: 3},
}

// MissingFields returns the required columns that are blank or too short,
// in SubmissionRequirements order.
func (e *Event) MissingFields() []string {
	var missing []string
	for _, req := range SubmissionRequirements {
		if !e.hasContent(req) {
			missing = append(missing, req.Column)
		}
	}
	return missing
}

func (e *Event) hasContent(req RequiredField) bool {
	switch req.Column {
	case "titulo":
		return charCount(e.Title) >= req.MinChars
	case "descripcion":
		return charCount(e.Description) >= req.MinChars
	case "ubicacion":
		return charCount(e.Location) >= req.MinChars
	case "fecha_inicio":
		return e.StartsAt != nil && !e.StartsAt.IsZero()
	case "fecha_fin":
		return e.EndsAt != nil && !e.EndsAt.IsZero()
	}
	return true
}

func charCount(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// EventInput carries the fields accepted on creation.
type EventInput struct {
	Title                  string
	Description            string
	StartsAt               *time.Time
	EndsAt                 *time.Time
	Location               string
	Capacity               *int
	EntryCost              *decimal.Decimal
	Category               string
	ExternalOrganizationID *uint
}

// EventPatch is a partial update; nil fields are left untouched. An
// ExternalOrganizationID of 0 clears the reference.
type EventPatch struct {
	Title                  *string
	Description            *string
	StartsAt               *time.Time
	EndsAt                 *time.Time
	Location               *string
	Capacity               *int
	EntryCost              *decimal.Decimal
	Category               *string
	ExternalOrganizationID *uint
}

// Changes returns the column set to update.
func (p EventPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Title != nil {
		changes["titulo"] = *p.Title
	}
	if p.Description != nil {
		changes["descripcion"] = *p.Description
	}
	if p.StartsAt != nil {
		changes["fecha_inicio"] = *p.StartsAt
	}
	if p.EndsAt != nil {
		changes["fecha_fin"] = *p.EndsAt
	}
	if p.Location != nil {
		changes["ubicacion"] = *p.Location
	}
	if p.Capacity != nil {
		changes["capacidad_maxima"] = *p.Capacity
	}
	if p.EntryCost != nil {
		changes["costo_entrada"] = *p.EntryCost
	}
	if p.Category != nil {
		changes["categoria"] = *p.Category
	}
	if p.ExternalOrganizationID != nil {
		if *p.ExternalOrganizationID == 0 {
			changes["organizacion_externa_id"] = nil
		} else {
			changes["organizacion_externa_id"] = *p.ExternalOrganizationID
		}
	}
	return changes
}

// EventFilter narrows event listings.
type EventFilter struct {
	Status EventStatus // empty means any
	Page   Page
}

// StatusTransition is a compare-and-swap state change.
type StatusTransition struct {
	EventID uint
	From    EventStatus
	To      EventStatus
	At      time.Time
	ActorID uint
	// Require repeats these predicates in the UPDATE so content cannot change
	// between the check and the write.
	Require []RequiredField
}
