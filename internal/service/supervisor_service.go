package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SupervisorService is the control surface for the teacher/admin owning a
// test. It authorizes the actor, then delegates to the state machine. Block
// and Unblock are idempotent from the caller's perspective: a supervisor's
// double-click returns the current state, never an error.
type SupervisorService interface {
	Block(attemptID, actorID uint, reason string) (*dto.SupervisorAttemptDTO, error)
	Unblock(attemptID, actorID uint) (*dto.SupervisorAttemptDTO, error)
	UpdateIntegrityConfig(testID, actorID uint, req dto.IntegrityConfigUpdateDTO) (*model.IntegrityConfig, error)
}

type supervisorService struct {
	attemptSvc  AttemptService
	attemptRepo repository.AttemptRepository
	testRepo    repository.TestRepository
}

func NewSupervisorService(
	attemptSvc AttemptService,
	attemptRepo repository.AttemptRepository,
	testRepo repository.TestRepository,
) SupervisorService {
	return &supervisorService{
		attemptSvc:  attemptSvc,
		attemptRepo: attemptRepo,
		testRepo:    testRepo,
	}
}

func (s *supervisorService) Block(attemptID, actorID uint, reason string) (*dto.SupervisorAttemptDTO, error) {
	attempt, err := s.authorize(attemptID, actorID)
	if err != nil {
		return nil, err
	}
	if attempt.IsBlocked {
		return dto.NewSupervisorAttempt(attempt), nil
	}

	blocked, err := s.attemptSvc.ManualBlock(attemptID, reason)
	if errors.Is(err, apperr.ErrInvalidTransition) {
		// Raced with another block; re-read and report the settled state.
		if current, readErr := s.attemptRepo.FindByID(attemptID); readErr == nil && current.IsBlocked {
			return dto.NewSupervisorAttempt(current), nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	log.Info().Uint("attemptID", attemptID).Uint("actorID", actorID).Msg("Supervisor block applied")
	return dto.NewSupervisorAttempt(blocked), nil
}

func (s *supervisorService) Unblock(attemptID, actorID uint) (*dto.SupervisorAttemptDTO, error) {
	attempt, err := s.authorize(attemptID, actorID)
	if err != nil {
		return nil, err
	}
	if !attempt.IsBlocked {
		return dto.NewSupervisorAttempt(attempt), nil
	}

	unblocked, err := s.attemptSvc.ManualUnblock(attemptID)
	if errors.Is(err, apperr.ErrInvalidTransition) {
		// Raced with another unblock; re-read and report the settled state.
		if current, readErr := s.attemptRepo.FindByID(attemptID); readErr == nil && !current.IsBlocked {
			return dto.NewSupervisorAttempt(current), nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	log.Info().Uint("attemptID", attemptID).Uint("actorID", actorID).Msg("Supervisor unblock applied")
	return dto.NewSupervisorAttempt(unblocked), nil
}

func (s *supervisorService) UpdateIntegrityConfig(testID, actorID uint, req dto.IntegrityConfigUpdateDTO) (*model.IntegrityConfig, error) {
	test, err := s.findTest(testID)
	if err != nil {
		return nil, err
	}
	if test.OwnerID != actorID {
		return nil, fmt.Errorf("actor %d does not own test %d: %w", actorID, testID, apperr.ErrUnauthorized)
	}

	cfg := test.IntegrityConfig
	if cfg == nil {
		cfg = &model.IntegrityConfig{TestID: testID, ViolationThreshold: model.DefaultViolationThreshold}
	}
	cfg.CheatDetectionEnabled = *req.CheatDetectionEnabled
	if req.ViolationThreshold > 0 {
		cfg.ViolationThreshold = req.ViolationThreshold
	}
	if err := s.testRepo.SaveIntegrityConfig(cfg); err != nil {
		return nil, fmt.Errorf("saving integrity config of test %d: %w", testID, err)
	}

	log.Info().Uint("testID", testID).Bool("enabled", cfg.CheatDetectionEnabled).
		Int("threshold", cfg.ViolationThreshold).Msg("Integrity config updated")
	return cfg, nil
}

// authorize loads the attempt and verifies the actor owns its test.
func (s *supervisorService) authorize(attemptID, actorID uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}

	test, err := s.findTest(attempt.TestID)
	if err != nil {
		return nil, err
	}
	if test.OwnerID != actorID {
		return nil, fmt.Errorf("actor %d does not own test %d: %w", actorID, test.ID, apperr.ErrUnauthorized)
	}
	return attempt, nil
}

func (s *supervisorService) findTest(testID uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return test, nil
}
