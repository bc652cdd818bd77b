package repository

import (
	"github.com/lshigami/Surikat/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	// WithTx returns a repository whose writes go through tx.
	WithTx(tx *gorm.DB) TestRepository
	Create(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	SaveIntegrityConfig(cfg *model.IntegrityConfig) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) WithTx(tx *gorm.DB) TestRepository {
	return &testRepository{db: tx}
}

func (r *testRepository) Create(test *model.Test) error {
	// GORM creates the associated IntegrityConfig when populated.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.Preload("IntegrityConfig").First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) SaveIntegrityConfig(cfg *model.IntegrityConfig) error {
	return r.db.Save(cfg).Error
}
