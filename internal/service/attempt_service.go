package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns every legal attempt transition and its invariants.
// All transitions for one attempt are serialized; transitions on different
// attempts proceed in parallel.
type AttemptService interface {
	Start(testID, studentID uint) (*model.Attempt, error)
	RecordAnswer(attemptID uint, answeredCount int) (*model.Attempt, error)
	Submit(attemptID uint) (*model.Attempt, error)
	RecordViolation(attemptID uint, report dto.ViolationReportDTO) (*model.Attempt, error)
	ManualBlock(attemptID uint, reason string) (*model.Attempt, error)
	ManualUnblock(attemptID uint) (*model.Attempt, error)
	Expire(attemptID uint) (*model.Attempt, error)
}

type attemptService struct {
	attemptRepo   repository.AttemptRepository
	violationRepo repository.ViolationRepository
	testRepo      repository.TestRepository
	rosterRepo    repository.RosterRepository
	locks         *attemptLocks
	now           func() time.Time
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	violationRepo repository.ViolationRepository,
	testRepo repository.TestRepository,
	rosterRepo repository.RosterRepository,
) AttemptService {
	return &attemptService{
		attemptRepo:   attemptRepo,
		violationRepo: violationRepo,
		testRepo:      testRepo,
		rosterRepo:    rosterRepo,
		locks:         newAttemptLocks(),
		now:           time.Now,
	}
}

// Start creates the attempt row on the student's first start transition.
// Legal only while the test window is open and only once per (test, student).
func (s *attemptService) Start(testID, studentID uint) (*model.Attempt, error) {
	test, err := s.findTest(testID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.rosterRepo.IsEnrolled(testID, studentID)
	if err != nil {
		return nil, fmt.Errorf("checking roster for test %d: %w", testID, err)
	}
	if !enrolled {
		return nil, fmt.Errorf("student %d is not on the roster of test %d: %w", studentID, testID, apperr.ErrNotFound)
	}

	now := s.now()
	if !test.WindowOpen(now) {
		return nil, fmt.Errorf("test %d window is %s–%s: %w",
			testID, test.WindowStart.Format(time.RFC3339), test.WindowEnd.Format(time.RFC3339), apperr.ErrWindowClosed)
	}

	if existing, err := s.attemptRepo.FindByTestAndStudent(testID, studentID); err == nil {
		log.Warn().Uint("attemptID", existing.ID).Msg("Start called on an already started attempt")
		return nil, fmt.Errorf("attempt %d already started: %w", existing.ID, apperr.ErrInvalidTransition)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up attempt for test %d student %d: %w", testID, studentID, err)
	}

	attempt := &model.Attempt{
		TestID:         testID,
		StudentID:      studentID,
		Status:         model.StatusInProgress,
		StartedAt:      now,
		LastActivityAt: now,
		TotalQuestions: test.TotalQuestions, // denormalized to avoid recomputation races
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		// The unique (test, student) index catches a concurrent double start.
		return nil, fmt.Errorf("creating attempt for test %d student %d: %w", testID, studentID, err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Uint("studentID", studentID).Msg("Attempt started")
	return attempt, nil
}

// RecordAnswer updates the answered count and activity stamp. Rejected unless
// the attempt is in progress; a blocked student's answers are refused, not
// queued. Counts below the current value are stale retries and ignored.
func (s *attemptService) RecordAnswer(attemptID uint, answeredCount int) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.Active() {
		return nil, fmt.Errorf("attempt %d is %s: %w", attemptID, attempt.Status, apperr.ErrAttemptNotActive)
	}
	if answeredCount < 0 || answeredCount > attempt.TotalQuestions {
		return nil, fmt.Errorf("answered count %d out of range [0,%d]: %w",
			answeredCount, attempt.TotalQuestions, apperr.ErrInvalidTransition)
	}

	if answeredCount > attempt.AnsweredCount {
		attempt.AnsweredCount = answeredCount
	}
	attempt.LastActivityAt = s.now()
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("updating attempt %d: %w", attemptID, err)
	}
	return attempt, nil
}

// Submit transitions an in-progress attempt to completed. Idempotent: a second
// submit returns the existing terminal state so client retries after a dropped
// response cannot corrupt it.
func (s *attemptService) Submit(attemptID uint) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.StatusCompleted {
		return attempt, nil
	}
	if !attempt.Active() {
		return nil, fmt.Errorf("attempt %d is %s: %w", attemptID, attempt.Status, apperr.ErrAttemptNotActive)
	}

	now := s.now()
	attempt.Status = model.StatusCompleted
	attempt.FinishedAt = &now
	attempt.LastActivityAt = now
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("completing attempt %d: %w", attemptID, err)
	}

	log.Info().Uint("attemptID", attemptID).Msg("Attempt submitted")
	return attempt, nil
}

// RecordViolation appends the event to the ledger, refreshes the cached
// counter, then evaluates the auto-block policy. Allowed while blocked as well
// so the audit trail stays complete.
func (s *attemptService) RecordViolation(attemptID uint, report dto.ViolationReportDTO) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.StatusInProgress && attempt.Status != model.StatusBlocked {
		return nil, fmt.Errorf("attempt %d is %s: %w", attemptID, attempt.Status, apperr.ErrAttemptNotActive)
	}

	actor := report.Actor
	if actor == "" {
		actor = model.ActorSystem
	}
	event := &model.ViolationEvent{
		AttemptID:   attemptID,
		EventType:   report.EventType,
		Actor:       actor,
		Description: report.Description,
		Metadata:    report.Metadata,
		OccurredAt:  s.now(),
	}
	// Durably logged before the policy decision: a crash here loses the block,
	// never the evidence, and the decision is re-derived from the counter.
	if err := s.violationRepo.Append(event); err != nil {
		return nil, fmt.Errorf("appending violation for attempt %d: %w", attemptID, err)
	}

	count, err := s.violationRepo.CountByAttempt(attemptID)
	if err != nil {
		// Fall back to the cached counter rather than dropping the increment.
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Ledger recount failed, incrementing cached counter")
		count = int64(attempt.ViolationCount) + 1
	}
	attempt.ViolationCount = int(count)
	attempt.LastActivityAt = event.OccurredAt

	if attempt.Status == model.StatusInProgress {
		test, err := s.findTest(attempt.TestID)
		if err != nil {
			return nil, err
		}
		if ShouldAutoBlock(test.IntegrityConfig, attempt.ViolationCount) {
			reason := model.AutoBlockReason
			attempt.Status = model.StatusBlocked
			attempt.IsBlocked = true
			attempt.BlockedReason = &reason
			log.Warn().Uint("attemptID", attemptID).Int("violations", attempt.ViolationCount).
				Msg("Violation threshold reached, auto-blocking attempt")
		}
	}

	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("updating attempt %d after violation: %w", attemptID, err)
	}
	return attempt, nil
}

// ManualBlock suspends an in-progress attempt with the supervisor's reason.
func (s *attemptService) ManualBlock(attemptID uint, reason string) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.Active() {
		return nil, fmt.Errorf("cannot block attempt %d in state %s: %w", attemptID, attempt.Status, apperr.ErrInvalidTransition)
	}

	if reason == "" {
		reason = model.DefaultManualBlockReason
	}
	attempt.Status = model.StatusBlocked
	attempt.IsBlocked = true
	attempt.BlockedReason = &reason
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("blocking attempt %d: %w", attemptID, err)
	}

	log.Info().Uint("attemptID", attemptID).Str("reason", reason).Msg("Attempt blocked by supervisor")
	return attempt, nil
}

// ManualUnblock resumes a blocked attempt, but only while the test window is
// still open. A blocked attempt whose window lapsed stays blocked until the
// sweep expires it; resurrecting it would grant extra time.
func (s *attemptService) ManualUnblock(attemptID uint) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.StatusBlocked {
		return nil, fmt.Errorf("cannot unblock attempt %d in state %s: %w", attemptID, attempt.Status, apperr.ErrInvalidTransition)
	}

	test, err := s.findTest(attempt.TestID)
	if err != nil {
		return nil, err
	}
	if test.WindowExpired(s.now()) {
		return nil, fmt.Errorf("test %d ended at %s: %w", test.ID, test.WindowEnd.Format(time.RFC3339), apperr.ErrWindowClosed)
	}

	attempt.Status = model.StatusInProgress
	attempt.IsBlocked = false
	attempt.BlockedReason = nil
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("unblocking attempt %d: %w", attemptID, err)
	}

	log.Info().Uint("attemptID", attemptID).Msg("Attempt unblocked by supervisor")
	return attempt, nil
}

// Expire force-completes an attempt whose test window has ended. Invoked by the
// sweep; an ordinary writer that goes through the same per-attempt lock. The
// finish stamp is the window end, not the sweep time, and the answered count is
// frozen at its last value. Idempotent on already-completed attempts.
func (s *attemptService) Expire(attemptID uint) (*model.Attempt, error) {
	s.locks.lock(attemptID)
	defer s.locks.unlock(attemptID)

	attempt, err := s.findAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.StatusCompleted {
		return attempt, nil
	}

	test, err := s.findTest(attempt.TestID)
	if err != nil {
		return nil, err
	}
	if !test.WindowExpired(s.now()) {
		return nil, fmt.Errorf("test %d window still open: %w", test.ID, apperr.ErrInvalidTransition)
	}

	finished := test.WindowEnd
	attempt.Status = model.StatusCompleted
	attempt.FinishedAt = &finished
	attempt.IsBlocked = false
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("expiring attempt %d: %w", attemptID, err)
	}

	log.Info().Uint("attemptID", attemptID).Time("finishedAt", finished).Msg("Attempt expired")
	return attempt, nil
}

func (s *attemptService) findAttempt(id uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading attempt %d: %w", id, err)
	}
	return attempt, nil
}

func (s *attemptService) findTest(id uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", id, err)
	}
	return test, nil
}
