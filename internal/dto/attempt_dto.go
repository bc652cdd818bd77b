package dto

import (
	"encoding/json"
	"time"

	"github.com/lshigami/Surikat/internal/model"
)

// StudentBlockedMessage is the only blocked detail a student ever sees; the
// stored reason is reserved for supervisor views.
const StudentBlockedMessage = "blocked, contact your supervisor"

// StartAttemptDTO starts an attempt for a rostered student.
type StartAttemptDTO struct {
	StudentID uint `json:"student_id" binding:"required"`
}

// RecordAnswerDTO carries the absolute answered count after the student's
// latest answer. Stale retries (counts below the current value) are ignored.
type RecordAnswerDTO struct {
	AnsweredCount *int `json:"answered_count" binding:"required,min=0"`
}

// ViolationReportDTO is one integrity event reported by the exam runner or a
// supervisor.
type ViolationReportDTO struct {
	EventType   string          `json:"event_type" binding:"required"`
	Actor       string          `json:"actor" binding:"omitempty,oneof=system supervisor"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// AttemptStateDTO is the student-facing view of an attempt. It deliberately
// omits the blocked reason and violation count.
type AttemptStateDTO struct {
	ID             uint       `json:"id"`
	TestID         uint       `json:"test_id"`
	StudentID      uint       `json:"student_id"`
	Status         string     `json:"status"`
	AnsweredCount  int        `json:"answered_count"`
	TotalQuestions int        `json:"total_questions"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Blocked        bool       `json:"blocked"`
	BlockedMessage string     `json:"blocked_message,omitempty"`
}

// NewAttemptState builds the student view from an attempt model.
func NewAttemptState(a *model.Attempt) *AttemptStateDTO {
	state := &AttemptStateDTO{
		ID:             a.ID,
		TestID:         a.TestID,
		StudentID:      a.StudentID,
		Status:         a.Status,
		AnsweredCount:  a.AnsweredCount,
		TotalQuestions: a.TotalQuestions,
		StartedAt:      a.StartedAt,
		LastActivityAt: a.LastActivityAt,
		FinishedAt:     a.FinishedAt,
		Blocked:        a.IsBlocked,
	}
	if a.IsBlocked {
		state.BlockedMessage = StudentBlockedMessage
	}
	return state
}
