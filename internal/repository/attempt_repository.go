package repository

import (
	"time"

	"github.com/lshigami/Surikat/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	Update(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	FindByTestAndStudent(testID, studentID uint) (*model.Attempt, error)
	FindByTestID(testID uint) ([]model.Attempt, error)
	FindExpirable(now time.Time) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.Attempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByTestAndStudent(testID, studentID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Where("test_id = ? AND student_id = ?", testID, studentID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByTestID(testID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("test_id = ?", testID).Find(&attempts).Error
	return attempts, err
}

// FindExpirable returns attempts still in progress or blocked whose test window
// ended before now. Used by the expiry sweep.
func (r *attemptRepository) FindExpirable(now time.Time) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.
		Joins("JOIN tests ON tests.id = attempts.test_id").
		Where("attempts.status IN ?", []string{model.StatusInProgress, model.StatusBlocked}).
		Where("tests.window_end < ?", now).
		Find(&attempts).Error
	return attempts, err
}
