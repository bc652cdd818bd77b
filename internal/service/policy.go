package service

import "github.com/lshigami/Surikat/internal/model"

// ShouldAutoBlock is the auto-block policy evaluator: given a test's integrity
// config and an attempt's current violation count, it decides whether the
// attempt must be forced to blocked. Stateless; evaluated synchronously inside
// RecordViolation so the decision is atomic with the triggering event.
func ShouldAutoBlock(cfg *model.IntegrityConfig, violationCount int) bool {
	if cfg == nil || !cfg.CheatDetectionEnabled {
		return false
	}
	return violationCount >= cfg.EffectiveThreshold()
}
