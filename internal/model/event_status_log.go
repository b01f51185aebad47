package model

import "time"

// EventStatusLog records one lifecycle step of an event.
// Creation is logged with a nil FromStatus.
type EventStatusLog struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	EventID    uint         `json:"evento_id" gorm:"column:evento_id;not null;index"`
	FromStatus *EventStatus `json:"estado_anterior" gorm:"column:estado_anterior;size:30"`
	ToStatus   EventStatus  `json:"estado_nuevo" gorm:"column:estado_nuevo;size:30;not null"`
	ActorID    *uint        `json:"usuario_id" gorm:"column:usuario_id"`
	CreatedAt  time.Time    `json:"fecha" gorm:"column:fecha;autoCreateTime"`
}

// TableName keeps the naming of the other event tables.
func (EventStatusLog) TableName() string { return "eventos_historial" }
