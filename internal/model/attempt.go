package model

import "time"

// Attempt states. NOT_STARTED is virtual: a roster entry with no attempt row is
// reported as not_started by the monitoring aggregator but never stored.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

// AutoBlockReason marks blocks performed by the violation-threshold policy, as
// opposed to a supervisor's manual block. Dashboards rely on the distinction.
const AutoBlockReason = "automatic: violation threshold reached"

// DefaultManualBlockReason is recorded when a supervisor blocks without giving one.
const DefaultManualBlockReason = "blocked by supervisor"

// Attempt is one student's single pass at one test. Rows are created on the
// first start transition and are never physically deleted; completed attempts
// are the historical record for reporting.
type Attempt struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	TestID         uint       `json:"test_id" gorm:"not null;uniqueIndex:idx_attempts_test_student"`
	StudentID      uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_attempts_test_student"`
	Status         string     `json:"status" gorm:"not null;index"` // in_progress, completed, blocked
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	AnsweredCount  int        `json:"answered_count" gorm:"not null;default:0"`
	TotalQuestions int        `json:"total_questions" gorm:"not null"` // denormalized from the test at start
	IsBlocked      bool       `json:"is_blocked" gorm:"not null;default:false;index"`
	BlockedReason  *string    `json:"blocked_reason,omitempty"`
	ViolationCount int        `json:"violation_count" gorm:"not null;default:0"` // cache of the ledger count
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Active reports whether the student may still act on the attempt.
func (a *Attempt) Active() bool {
	return a.Status == StatusInProgress
}

// Terminal reports whether no further student-driven transition is possible.
func (a *Attempt) Terminal() bool {
	return a.Status == StatusCompleted
}

// ProgressPercent is answered/total rounded to the nearest whole percent,
// 0 when the test has no questions.
func (a *Attempt) ProgressPercent() int {
	if a.TotalQuestions <= 0 {
		return 0
	}
	return (a.AnsweredCount*100 + a.TotalQuestions/2) / a.TotalQuestions
}
