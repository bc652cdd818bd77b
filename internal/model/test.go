package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	Title           string           `json:"title" gorm:"not null"`
	Description     string           `json:"description,omitempty"`
	OwnerID         uint             `json:"owner_id" gorm:"not null;index"` // supervising teacher/admin
	WindowStart     time.Time        `json:"window_start" gorm:"not null"`
	WindowEnd       time.Time        `json:"window_end" gorm:"not null"`
	TotalQuestions  int              `json:"total_questions" gorm:"not null"`
	IntegrityConfig *IntegrityConfig `json:"integrity_config,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// WindowOpen reports whether the test can be taken at the given instant.
func (t *Test) WindowOpen(at time.Time) bool {
	return !at.Before(t.WindowStart) && !at.After(t.WindowEnd)
}

// WindowExpired reports whether the test's scheduling window has lapsed.
func (t *Test) WindowExpired(at time.Time) bool {
	return at.After(t.WindowEnd)
}
