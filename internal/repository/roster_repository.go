package repository

import (
	"github.com/lshigami/Surikat/internal/model"
	"gorm.io/gorm"
)

type RosterRepository interface {
	// WithTx returns a repository whose writes go through tx.
	WithTx(tx *gorm.DB) RosterRepository
	CreateStudent(student *model.Student) error
	FindStudentByExternalID(externalID string) (*model.Student, error)
	Enroll(testID, studentID uint) error
	IsEnrolled(testID, studentID uint) (bool, error)
	FindStudentsByTest(testID uint) ([]model.Student, error)
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) WithTx(tx *gorm.DB) RosterRepository {
	return &rosterRepository{db: tx}
}

func (r *rosterRepository) CreateStudent(student *model.Student) error {
	return r.db.Create(student).Error
}

func (r *rosterRepository) FindStudentByExternalID(externalID string) (*model.Student, error) {
	var student model.Student
	if err := r.db.Where("external_id = ?", externalID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *rosterRepository) Enroll(testID, studentID uint) error {
	return r.db.Create(&model.Enrollment{TestID: testID, StudentID: studentID}).Error
}

func (r *rosterRepository) IsEnrolled(testID, studentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("test_id = ? AND student_id = ?", testID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *rosterRepository) FindStudentsByTest(testID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.db.
		Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.test_id = ?", testID).
		Order("students.name ASC").
		Find(&students).Error
	return students, err
}
