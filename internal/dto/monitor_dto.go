package dto

import (
	"encoding/json"
	"time"
)

// ViolationEventDTO is one ledger entry as shown on the dashboard.
type ViolationEventDTO struct {
	ID          uint            `json:"id"`
	EventType   string          `json:"event_type"`
	Actor       string          `json:"actor"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// AttemptRowDTO is one roster entry in a monitoring snapshot. Students with no
// attempt row appear as not_started with all numeric fields zeroed.
type AttemptRowDTO struct {
	StudentID       uint                `json:"student_id"`
	StudentName     string              `json:"student_name"`
	ExternalID      string              `json:"external_id"`
	GroupLabel      string              `json:"group_label,omitempty"`
	AttemptID       *uint               `json:"attempt_id,omitempty"`
	Status          string              `json:"status"`
	IsBlocked       bool                `json:"is_blocked"`
	BlockedReason   *string             `json:"blocked_reason,omitempty"`
	ViolationCount  int                 `json:"violation_count"`
	AnsweredCount   int                 `json:"answered_count"`
	TotalQuestions  int                 `json:"total_questions"`
	ProgressPercent int                 `json:"progress_percent"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	LastActivityAt  *time.Time          `json:"last_activity_at,omitempty"`
	FinishedAt      *time.Time          `json:"finished_at,omitempty"`
	RecentEvents    []ViolationEventDTO `json:"recent_events,omitempty"`
}

// SnapshotSummaryDTO aggregates row counts for the dashboard header.
type SnapshotSummaryDTO struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
}

// MonitorSnapshotDTO is the full per-test projection a supervisor dashboard
// polls. Recomputed on every request, never persisted.
type MonitorSnapshotDTO struct {
	TestID      uint               `json:"test_id"`
	TestTitle   string             `json:"test_title"`
	WindowStart time.Time          `json:"window_start"`
	WindowEnd   time.Time          `json:"window_end"`
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     SnapshotSummaryDTO `json:"summary"`
	Rows        []AttemptRowDTO    `json:"rows"`
}
