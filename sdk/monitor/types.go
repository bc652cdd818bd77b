package monitor

import (
	"encoding/json"
	"time"
)

// Attempt states as reported in snapshot rows.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

// ViolationEvent is one integrity event in a row's recent-event tail.
type ViolationEvent struct {
	ID          uint            `json:"id"`
	EventType   string          `json:"event_type"`
	Actor       string          `json:"actor"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// AttemptRow is one rostered student's line in a snapshot.
type AttemptRow struct {
	StudentID       uint             `json:"student_id"`
	StudentName     string           `json:"student_name"`
	ExternalID      string           `json:"external_id"`
	GroupLabel      string           `json:"group_label,omitempty"`
	AttemptID       *uint            `json:"attempt_id,omitempty"`
	Status          string           `json:"status"`
	IsBlocked       bool             `json:"is_blocked"`
	BlockedReason   *string          `json:"blocked_reason,omitempty"`
	ViolationCount  int              `json:"violation_count"`
	AnsweredCount   int              `json:"answered_count"`
	TotalQuestions  int              `json:"total_questions"`
	ProgressPercent int              `json:"progress_percent"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	LastActivityAt  *time.Time       `json:"last_activity_at,omitempty"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
	RecentEvents    []ViolationEvent `json:"recent_events,omitempty"`
}

// Summary aggregates row counts for the dashboard header.
type Summary struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Blocked    int `json:"blocked"`
}

// Snapshot is the full per-test projection returned by the snapshot endpoint.
type Snapshot struct {
	TestID      uint         `json:"test_id"`
	TestTitle   string       `json:"test_title"`
	WindowStart time.Time    `json:"window_start"`
	WindowEnd   time.Time    `json:"window_end"`
	GeneratedAt time.Time    `json:"generated_at"`
	Summary     Summary      `json:"summary"`
	Rows        []AttemptRow `json:"rows"`
}
