package repository

import (
	"github.com/lshigami/Surikat/internal/model"
	"gorm.io/gorm"
)

// ViolationRepository is the append-only integrity ledger. Events are never
// updated or deleted through this interface.
type ViolationRepository interface {
	Append(event *model.ViolationEvent) error
	CountByAttempt(attemptID uint) (int64, error)
	FindRecentByAttempt(attemptID uint, limit int) ([]model.ViolationEvent, error)
}

type violationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Append(event *model.ViolationEvent) error {
	return r.db.Create(event).Error
}

func (r *violationRepository) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ViolationEvent{}).
		Where("attempt_id = ?", attemptID).
		Count(&count).Error
	return count, err
}

func (r *violationRepository) FindRecentByAttempt(attemptID uint, limit int) ([]model.ViolationEvent, error) {
	var events []model.ViolationEvent
	err := r.db.Where("attempt_id = ?", attemptID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
