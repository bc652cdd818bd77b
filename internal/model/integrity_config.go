package model

import "time"

// DefaultViolationThreshold is applied when a test's config carries no override.
const DefaultViolationThreshold = 3

type IntegrityConfig struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	TestID                uint      `json:"test_id" gorm:"not null;uniqueIndex"`
	CheatDetectionEnabled bool      `json:"cheat_detection_enabled" gorm:"not null;default:false"`
	ViolationThreshold    int       `json:"violation_threshold" gorm:"not null;default:3"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// EffectiveThreshold returns the configured threshold, falling back to the
// platform default when the stored value is unset or nonsense.
func (c *IntegrityConfig) EffectiveThreshold() int {
	if c == nil || c.ViolationThreshold <= 0 {
		return DefaultViolationThreshold
	}
	return c.ViolationThreshold
}
