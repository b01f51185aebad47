package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from EventStatus
		to   EventStatus
		want bool
	}{
		{EventStatusDraft, EventStatusPendingReview, true},
		{EventStatusDraft, EventStatusApproved, false},
		{EventStatusPendingReview, EventStatusPendingReview, false},
		{EventStatusPendingReview, EventStatusDraft, false},
		{EventStatusApproved, EventStatusPendingReview, false},
		{EventStatusRejected, EventStatusPendingReview, false},
		{EventStatus("cancelado"), EventStatusPendingReview, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEventStatus_Editable(t *testing.T) {
	assert.True(t, EventStatusDraft.Editable())
	assert.True(t, EventStatusPendingReview.Editable())
	assert.False(t, EventStatusApproved.Editable())
	assert.False(t, EventStatusRejected.Editable())
	assert.False(t, EventStatus("").Valid())
}

func TestEvent_MissingFields(t *testing.T) {
	start := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	tests := []struct {
		name  string
		event Event
		want  []string
	}{
		{
			name: "complete",
			event: Event{
				Title:       "Feria de Ciencias",
				Description: "Muestra anual de proyectos",
				StartsAt:    &start,
				EndsAt:      &end,
				Location:    "Auditorio",
			},
		},
		{
			name: "short description",
			event: Event{
				Title:       "Feria de Ciencias",
				Description: "Muestra",
				StartsAt:    &start,
				EndsAt:      &end,
				Location:    "Auditorio",
			},
			want: []string{"descripcion"},
		},
		{
			name: "whitespace does not count",
			event: Event{
				Title:       "  ab  ",
				Description: "          ",
				StartsAt:    &start,
				EndsAt:      &end,
				Location:    " Sala ",
			},
			want: []string{"titulo", "descripcion"},
		},
		{
			name: "multibyte characters count once",
			event: Event{
				Title:       "Añó",
				Description: "Ñandúes ñoños",
				StartsAt:    &start,
				EndsAt:      &end,
				Location:    "Aula",
			},
		},
		{
			name:  "empty draft",
			event: Event{},
			want:  []string{"titulo", "descripcion", "fecha_inicio", "fecha_fin", "ubicacion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.MissingFields())
		})
	}
}

func TestEventPatch_Changes(t *testing.T) {
	title := "Nuevo"
	orgID := uint(4)
	changes := EventPatch{Title: &title, ExternalOrganizationID: &orgID}.Changes()

	assert.Equal(t, map[string]interface{}{
		"titulo":                  "Nuevo",
		"organizacion_externa_id": uint(4),
	}, changes)
	assert.Empty(t, EventPatch{}.Changes())

	detach := uint(0)
	changes = EventPatch{ExternalOrganizationID: &detach}.Changes()
	assert.Equal(t, map[string]interface{}{"organizacion_externa_id": nil}, changes)
}
