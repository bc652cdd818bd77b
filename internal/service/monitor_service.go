package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MonitorService assembles the per-test dashboard projection for the test's
// owner. Reads only; it never takes the per-attempt transition lock, so
// snapshots cannot block writers. Consistency is best-effort: attempts may
// mutate between the roster fetch and the attempt fetch, which a polling
// dashboard corrects on its next cycle.
type MonitorService interface {
	GetSnapshot(testID, actorID uint) (*dto.MonitorSnapshotDTO, error)
}

type monitorService struct {
	testRepo      repository.TestRepository
	rosterRepo    repository.RosterRepository
	attemptRepo   repository.AttemptRepository
	violationRepo repository.ViolationRepository
	recentEvents  int
	now           func() time.Time
}

func NewMonitorService(
	testRepo repository.TestRepository,
	rosterRepo repository.RosterRepository,
	attemptRepo repository.AttemptRepository,
	violationRepo repository.ViolationRepository,
	recentEvents int,
) MonitorService {
	if recentEvents <= 0 {
		recentEvents = 5
	}
	return &monitorService{
		testRepo:      testRepo,
		rosterRepo:    rosterRepo,
		attemptRepo:   attemptRepo,
		violationRepo: violationRepo,
		recentEvents:  recentEvents,
		now:           time.Now,
	}
}

func (s *monitorService) GetSnapshot(testID, actorID uint) (*dto.MonitorSnapshotDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("test %d: %w", testID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	// The snapshot carries blocked reasons and violation detail students must
	// never see, so it is owner-only.
	if test.OwnerID != actorID {
		return nil, fmt.Errorf("actor %d does not own test %d: %w", actorID, testID, apperr.ErrUnauthorized)
	}

	students, err := s.rosterRepo.FindStudentsByTest(testID)
	if err != nil {
		return nil, fmt.Errorf("loading roster of test %d: %w", testID, err)
	}

	attempts, err := s.attemptRepo.FindByTestID(testID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts of test %d: %w", testID, err)
	}
	byStudent := make(map[uint]*model.Attempt, len(attempts))
	for i := range attempts {
		byStudent[attempts[i].StudentID] = &attempts[i]
	}

	snapshot := &dto.MonitorSnapshotDTO{
		TestID:      test.ID,
		TestTitle:   test.Title,
		WindowStart: test.WindowStart,
		WindowEnd:   test.WindowEnd,
		GeneratedAt: s.now(),
		Rows:        make([]dto.AttemptRowDTO, 0, len(students)),
	}

	for _, student := range students {
		row := dto.AttemptRowDTO{
			StudentID:   student.ID,
			StudentName: student.Name,
			ExternalID:  student.ExternalID,
			GroupLabel:  student.GroupLabel,
			Status:      model.StatusNotStarted,
		}

		if attempt, ok := byStudent[student.ID]; ok {
			s.fillAttemptRow(&row, attempt, test.IntegrityConfig)
		}

		switch row.Status {
		case model.StatusNotStarted:
			snapshot.Summary.NotStarted++
		case model.StatusInProgress:
			snapshot.Summary.InProgress++
		case model.StatusCompleted:
			snapshot.Summary.Completed++
		case model.StatusBlocked:
			snapshot.Summary.Blocked++
		}
		snapshot.Rows = append(snapshot.Rows, row)
	}

	return snapshot, nil
}

func (s *monitorService) fillAttemptRow(row *dto.AttemptRowDTO, attempt *model.Attempt, cfg *model.IntegrityConfig) {
	id := attempt.ID
	row.AttemptID = &id
	row.Status = attempt.Status
	row.IsBlocked = attempt.IsBlocked
	row.BlockedReason = attempt.BlockedReason
	row.ViolationCount = attempt.ViolationCount
	row.AnsweredCount = attempt.AnsweredCount
	row.TotalQuestions = attempt.TotalQuestions
	row.ProgressPercent = attempt.ProgressPercent()
	row.StartedAt = &attempt.StartedAt
	row.LastActivityAt = &attempt.LastActivityAt
	row.FinishedAt = attempt.FinishedAt

	// Crash recovery: a violation may have been logged without its block
	// decision surviving. Re-derive from the cached counter so the dashboard
	// shows the state the policy mandates.
	if attempt.Status == model.StatusInProgress && ShouldAutoBlock(cfg, attempt.ViolationCount) {
		reason := model.AutoBlockReason
		row.Status = model.StatusBlocked
		row.IsBlocked = true
		row.BlockedReason = &reason
	}

	events, err := s.violationRepo.FindRecentByAttempt(attempt.ID, s.recentEvents)
	if err != nil {
		// Best-effort: the row ships without its event tail.
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to load recent violations for snapshot row")
		return
	}
	if len(events) > 0 {
		row.RecentEvents = make([]dto.ViolationEventDTO, len(events))
		for i := range events {
			if err := copier.Copy(&row.RecentEvents[i], &events[i]); err != nil {
				log.Warn().Err(err).Uint("eventID", events[i].ID).Msg("Failed to copy violation event to DTO")
			}
		}
	}
}
