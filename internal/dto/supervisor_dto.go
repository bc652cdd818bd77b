package dto

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/rs/zerolog/log"
)

// BlockRequestDTO carries the optional reason for a manual block.
type BlockRequestDTO struct {
	Reason string `json:"reason,omitempty"`
}

// IntegrityConfigUpdateDTO updates a test's cheat-detection settings.
type IntegrityConfigUpdateDTO struct {
	CheatDetectionEnabled *bool `json:"cheat_detection_enabled" binding:"required"`
	ViolationThreshold    int   `json:"violation_threshold" binding:"omitempty,min=1"`
}

// SupervisorAttemptDTO is the supervisor-facing view of an attempt: unlike the
// student view it exposes the blocked reason and violation count.
type SupervisorAttemptDTO struct {
	ID             uint       `json:"id"`
	TestID         uint       `json:"test_id"`
	StudentID      uint       `json:"student_id"`
	Status         string     `json:"status"`
	AnsweredCount  int        `json:"answered_count"`
	TotalQuestions int        `json:"total_questions"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	IsBlocked      bool       `json:"is_blocked"`
	BlockedReason  *string    `json:"blocked_reason,omitempty"`
	ViolationCount int        `json:"violation_count"`
}

// NewSupervisorAttempt builds the supervisor view from an attempt model.
func NewSupervisorAttempt(a *model.Attempt) *SupervisorAttemptDTO {
	var out SupervisorAttemptDTO
	if err := copier.Copy(&out, a); err != nil {
		log.Error().Err(err).Uint("attemptID", a.ID).Msg("Failed to copy attempt to supervisor DTO")
	}
	return &out
}
