package model

import (
	"encoding/json"
	"time"
)

// Violation actors.
const (
	ActorSystem     = "system"
	ActorSupervisor = "supervisor"
)

// ViolationEvent is one append-only integrity event against an attempt.
// Events are never updated or deleted; OccurredAt ordering is the canonical
// order for "most recent N" views.
type ViolationEvent struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	AttemptID   uint            `json:"attempt_id" gorm:"not null;index"`
	EventType   string          `json:"event_type" gorm:"not null"` // e.g. tab-switch, window-blur, multiple-faces
	Actor       string          `json:"actor" gorm:"not null;default:'system'"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Metadata    json.RawMessage `json:"metadata,omitempty" gorm:"type:jsonb"`
	OccurredAt  time.Time       `json:"occurred_at" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
}
