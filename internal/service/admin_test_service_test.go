package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Staged fakes emulating gorm's transaction semantics: writes issued through
// WithTx land in a staging area that the harness merges into the base store
// only when the closure succeeds. Writes issued on the outer repositories hit
// the base store directly, the way an untransacted gorm write would, so a
// write that bypasses the transaction scope pollutes the base store and fails
// the rollback assertions.

type stagedTestRepo struct {
	*memTestRepo
	staged []*model.Test
}

func (r *stagedTestRepo) WithTx(*gorm.DB) repository.TestRepository {
	return txTestRepo{r}
}

func (r *stagedTestRepo) commit() {
	r.mu.Lock()
	for _, test := range r.staged {
		r.tests[test.ID] = test
	}
	r.mu.Unlock()
	r.staged = nil
}

func (r *stagedTestRepo) discard() { r.staged = nil }

type txTestRepo struct{ s *stagedTestRepo }

func (t txTestRepo) WithTx(*gorm.DB) repository.TestRepository { return t }

func (t txTestRepo) Create(test *model.Test) error {
	base := t.s.memTestRepo
	base.mu.Lock()
	base.next++
	test.ID = base.next
	base.mu.Unlock()
	test.CreatedAt = time.Now()
	if test.IntegrityConfig != nil {
		test.IntegrityConfig.TestID = test.ID
	}
	copied := *test
	t.s.staged = append(t.s.staged, &copied)
	return nil
}

func (t txTestRepo) FindByID(id uint) (*model.Test, error) {
	for _, test := range t.s.staged {
		if test.ID == id {
			copied := *test
			return &copied, nil
		}
	}
	return t.s.memTestRepo.FindByID(id)
}

func (t txTestRepo) SaveIntegrityConfig(cfg *model.IntegrityConfig) error {
	return t.s.memTestRepo.SaveIntegrityConfig(cfg)
}

type stagedRosterRepo struct {
	*memRosterRepo
	stagedStudents    []model.Student
	stagedEnrollments map[uint][]uint
	enrollCalls       int
	failEnrollOnCall  int // 1-based call index, 0 disables
}

func (r *stagedRosterRepo) WithTx(*gorm.DB) repository.RosterRepository {
	return txRosterRepo{r}
}

func (r *stagedRosterRepo) commit() {
	r.mu.Lock()
	for _, s := range r.stagedStudents {
		r.students[s.ID] = s
	}
	for testID, ids := range r.stagedEnrollments {
		r.enrollments[testID] = append(r.enrollments[testID], ids...)
	}
	r.mu.Unlock()
	r.stagedStudents, r.stagedEnrollments = nil, nil
}

func (r *stagedRosterRepo) discard() {
	r.stagedStudents, r.stagedEnrollments = nil, nil
}

type txRosterRepo struct{ s *stagedRosterRepo }

func (t txRosterRepo) WithTx(*gorm.DB) repository.RosterRepository { return t }

func (t txRosterRepo) CreateStudent(student *model.Student) error {
	base := t.s.memRosterRepo
	base.mu.Lock()
	base.next++
	student.ID = base.next
	base.mu.Unlock()
	t.s.stagedStudents = append(t.s.stagedStudents, *student)
	return nil
}

func (t txRosterRepo) FindStudentByExternalID(externalID string) (*model.Student, error) {
	for _, s := range t.s.stagedStudents {
		if s.ExternalID == externalID {
			copied := s
			return &copied, nil
		}
	}
	return t.s.memRosterRepo.FindStudentByExternalID(externalID)
}

func (t txRosterRepo) Enroll(testID, studentID uint) error {
	t.s.enrollCalls++
	if t.s.failEnrollOnCall > 0 && t.s.enrollCalls == t.s.failEnrollOnCall {
		return errors.New("insert into enrollments failed")
	}
	if t.s.stagedEnrollments == nil {
		t.s.stagedEnrollments = make(map[uint][]uint)
	}
	t.s.stagedEnrollments[testID] = append(t.s.stagedEnrollments[testID], studentID)
	return nil
}

func (t txRosterRepo) IsEnrolled(testID, studentID uint) (bool, error) {
	return t.s.memRosterRepo.IsEnrolled(testID, studentID)
}

func (t txRosterRepo) FindStudentsByTest(testID uint) ([]model.Student, error) {
	return t.s.memRosterRepo.FindStudentsByTest(testID)
}

type adminHarness struct {
	tests  *stagedTestRepo
	roster *stagedRosterRepo
	svc    *adminTestService
}

func newAdminHarness(t *testing.T) *adminHarness {
	t.Helper()
	h := &adminHarness{
		tests:  &stagedTestRepo{memTestRepo: newMemTestRepo()},
		roster: &stagedRosterRepo{memRosterRepo: newMemRosterRepo()},
	}
	svc := NewAdminTestService(h.tests, h.roster, nil).(*adminTestService)
	svc.tx = func(fn func(tx *gorm.DB) error) error {
		if err := fn(nil); err != nil {
			h.tests.discard()
			h.roster.discard()
			return err
		}
		h.tests.commit()
		h.roster.commit()
		return nil
	}
	h.svc = svc
	return h
}

func testCreateRequest() dto.TestCreateDTO {
	return dto.TestCreateDTO{
		Title:          "Midterm",
		OwnerID:        42,
		WindowStart:    windowStart,
		WindowEnd:      windowEnd,
		TotalQuestions: 20,
		IntegrityConfig: &dto.IntegrityConfigDTO{
			CheatDetectionEnabled: true,
			ViolationThreshold:    3,
		},
		Roster: []dto.RosterEntryDTO{
			{ExternalID: "S-001", Name: "Ada"},
			{ExternalID: "S-002", Name: "Ben", GroupLabel: "9B"},
		},
	}
}

func TestCreateTest(t *testing.T) {
	t.Run("creates test, config, students and enrollments", func(t *testing.T) {
		h := newAdminHarness(t)

		resp, err := h.svc.CreateTest(testCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 2, resp.RosterSize)
		require.NotNil(t, resp.IntegrityConfig)
		assert.True(t, resp.IntegrityConfig.CheatDetectionEnabled)

		stored, err := h.tests.FindByID(resp.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.IntegrityConfig)
		assert.Equal(t, 3, stored.IntegrityConfig.ViolationThreshold)

		students, err := h.roster.FindStudentsByTest(resp.ID)
		require.NoError(t, err)
		assert.Len(t, students, 2)
	})

	t.Run("reuses an existing student matched by external id", func(t *testing.T) {
		h := newAdminHarness(t)
		existing := &model.Student{Name: "Ada", ExternalID: "S-001"}
		require.NoError(t, h.roster.CreateStudent(existing))

		resp, err := h.svc.CreateTest(testCreateRequest())
		require.NoError(t, err)

		students, err := h.roster.FindStudentsByTest(resp.ID)
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Len(t, h.roster.students, 2) // Ada was not duplicated
	})

	t.Run("failed enrollment commits nothing", func(t *testing.T) {
		h := newAdminHarness(t)
		h.roster.failEnrollOnCall = 2 // second roster entry

		_, err := h.svc.CreateTest(testCreateRequest())
		require.Error(t, err)

		// The test, the first student and the first enrollment must all have
		// been confined to the rolled-back transaction.
		assert.Empty(t, h.tests.tests)
		assert.Empty(t, h.roster.students)
		assert.Empty(t, h.roster.enrollments)
	})

	t.Run("rejects a window that ends before it starts", func(t *testing.T) {
		h := newAdminHarness(t)
		req := testCreateRequest()
		req.WindowStart, req.WindowEnd = req.WindowEnd, req.WindowStart

		_, err := h.svc.CreateTest(req)
		require.Error(t, err)
		assert.Empty(t, h.tests.tests)
	})
}
