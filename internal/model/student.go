package model

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `json:"name" gorm:"not null"`
	ExternalID string         `json:"external_id" gorm:"not null;uniqueIndex"` // school registry number
	GroupLabel string         `json:"group_label,omitempty"`                   // class/group for display
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Enrollment is one roster row: the student is expected to take the test.
type Enrollment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TestID    uint      `json:"test_id" gorm:"not null;uniqueIndex:idx_enrollments_test_student"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_test_student"`
	Student   Student   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	CreatedAt time.Time `json:"created_at"`
}
