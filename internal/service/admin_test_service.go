package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminTestService creates scheduled tests together with their integrity
// config and roster. Resource CRUD beyond this is handled by the school's
// management backend, not this service.
type AdminTestService interface {
	CreateTest(req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
}

type adminTestService struct {
	testRepo   repository.TestRepository
	rosterRepo repository.RosterRepository
	tx         func(fn func(tx *gorm.DB) error) error
}

func NewAdminTestService(testRepo repository.TestRepository, rosterRepo repository.RosterRepository, db *gorm.DB) AdminTestService {
	return &adminTestService{
		testRepo:   testRepo,
		rosterRepo: rosterRepo,
		tx:         func(fn func(tx *gorm.DB) error) error { return db.Transaction(fn) },
	}
}

func (s *adminTestService) CreateTest(req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	if !req.WindowEnd.After(req.WindowStart) {
		return nil, fmt.Errorf("window end %s must be after window start %s", req.WindowEnd, req.WindowStart)
	}

	test := &model.Test{
		Title:          req.Title,
		Description:    req.Description,
		OwnerID:        req.OwnerID,
		WindowStart:    req.WindowStart,
		WindowEnd:      req.WindowEnd,
		TotalQuestions: req.TotalQuestions,
	}
	cfg := &model.IntegrityConfig{ViolationThreshold: model.DefaultViolationThreshold}
	if req.IntegrityConfig != nil {
		cfg.CheatDetectionEnabled = req.IntegrityConfig.CheatDetectionEnabled
		if req.IntegrityConfig.ViolationThreshold > 0 {
			cfg.ViolationThreshold = req.IntegrityConfig.ViolationThreshold
		}
	}
	test.IntegrityConfig = cfg

	// Everything inside goes through tx-scoped repositories so a failure on
	// the Nth roster entry rolls back the test and the earlier entries too.
	err := s.tx(func(tx *gorm.DB) error {
		testRepo := s.testRepo.WithTx(tx)
		rosterRepo := s.rosterRepo.WithTx(tx)

		if err := testRepo.Create(test); err != nil {
			return fmt.Errorf("creating test: %w", err)
		}
		for _, entry := range req.Roster {
			student, err := rosterRepo.FindStudentByExternalID(entry.ExternalID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				student = &model.Student{
					Name:       entry.Name,
					ExternalID: entry.ExternalID,
					GroupLabel: entry.GroupLabel,
				}
				if err := rosterRepo.CreateStudent(student); err != nil {
					return fmt.Errorf("creating student %s: %w", entry.ExternalID, err)
				}
			} else if err != nil {
				return fmt.Errorf("looking up student %s: %w", entry.ExternalID, err)
			}
			if err := rosterRepo.Enroll(test.ID, student.ID); err != nil {
				return fmt.Errorf("enrolling student %s: %w", entry.ExternalID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Test creation transaction failed")
		return nil, err
	}

	log.Info().Uint("testID", test.ID).Int("rosterSize", len(req.Roster)).Msg("Test created")
	resp := &dto.TestResponseDTO{
		ID:             test.ID,
		Title:          test.Title,
		Description:    test.Description,
		OwnerID:        test.OwnerID,
		WindowStart:    test.WindowStart,
		WindowEnd:      test.WindowEnd,
		TotalQuestions: test.TotalQuestions,
		RosterSize:     len(req.Roster),
		CreatedAt:      test.CreatedAt,
	}
	if test.IntegrityConfig != nil {
		resp.IntegrityConfig = &dto.IntegrityConfigDTO{
			CheatDetectionEnabled: test.IntegrityConfig.CheatDetectionEnabled,
			ViolationThreshold:    test.IntegrityConfig.ViolationThreshold,
		}
	}
	return resp, nil
}
