package dto

import "time"

// RosterEntryDTO enrolls one student when a test is created. Students are
// matched by external id and created on first sight.
type RosterEntryDTO struct {
	ExternalID string `json:"external_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	GroupLabel string `json:"group_label,omitempty"`
}

// IntegrityConfigDTO is the integrity section of a test definition.
type IntegrityConfigDTO struct {
	CheatDetectionEnabled bool `json:"cheat_detection_enabled"`
	ViolationThreshold    int  `json:"violation_threshold" binding:"omitempty,min=1"`
}

// TestCreateDTO is for an admin to define a scheduled test with its roster.
type TestCreateDTO struct {
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description,omitempty"`
	OwnerID         uint                `json:"owner_id" binding:"required"`
	WindowStart     time.Time           `json:"window_start" binding:"required"`
	WindowEnd       time.Time           `json:"window_end" binding:"required"`
	TotalQuestions  int                 `json:"total_questions" binding:"required,gt=0"`
	IntegrityConfig *IntegrityConfigDTO `json:"integrity_config,omitempty"`
	Roster          []RosterEntryDTO    `json:"roster" binding:"omitempty,dive"`
}

// TestResponseDTO is returned after test creation and on config updates.
type TestResponseDTO struct {
	ID              uint                `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description,omitempty"`
	OwnerID         uint                `json:"owner_id"`
	WindowStart     time.Time           `json:"window_start"`
	WindowEnd       time.Time           `json:"window_end"`
	TotalQuestions  int                 `json:"total_questions"`
	IntegrityConfig *IntegrityConfigDTO `json:"integrity_config,omitempty"`
	RosterSize      int                 `json:"roster_size"`
	CreatedAt       time.Time           `json:"created_at"`
}
