package service

import (
	"sync"
	"time"

	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the gorm implementations' contract,
// including gorm.ErrRecordNotFound for missing rows.

type memTestRepo struct {
	mu    sync.Mutex
	next  uint
	tests map[uint]*model.Test
}

func newMemTestRepo() *memTestRepo {
	return &memTestRepo{tests: make(map[uint]*model.Test)}
}

// WithTx returns the store itself; transaction staging is emulated by the
// admin service test's staged repos.
func (r *memTestRepo) WithTx(*gorm.DB) repository.TestRepository { return r }

func (r *memTestRepo) Create(test *model.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	test.ID = r.next
	test.CreatedAt = time.Now()
	if test.IntegrityConfig != nil {
		test.IntegrityConfig.TestID = test.ID
	}
	copied := *test
	r.tests[test.ID] = &copied
	return nil
}

func (r *memTestRepo) FindByID(id uint) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *test
	if test.IntegrityConfig != nil {
		cfg := *test.IntegrityConfig
		copied.IntegrityConfig = &cfg
	}
	return &copied, nil
}

func (r *memTestRepo) SaveIntegrityConfig(cfg *model.IntegrityConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	test, ok := r.tests[cfg.TestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *cfg
	test.IntegrityConfig = &copied
	return nil
}

type memRosterRepo struct {
	mu          sync.Mutex
	next        uint
	students    map[uint]model.Student
	enrollments map[uint][]uint // testID -> studentIDs
}

func newMemRosterRepo() *memRosterRepo {
	return &memRosterRepo{
		students:    make(map[uint]model.Student),
		enrollments: make(map[uint][]uint),
	}
}

func (r *memRosterRepo) WithTx(*gorm.DB) repository.RosterRepository { return r }

func (r *memRosterRepo) CreateStudent(student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	student.ID = r.next
	r.students[student.ID] = *student
	return nil
}

func (r *memRosterRepo) FindStudentByExternalID(externalID string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.ExternalID == externalID {
			copied := s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRosterRepo) Enroll(testID, studentID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrollments[testID] = append(r.enrollments[testID], studentID)
	return nil
}

func (r *memRosterRepo) IsEnrolled(testID, studentID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.enrollments[testID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRosterRepo) FindStudentsByTest(testID uint) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Student
	for _, id := range r.enrollments[testID] {
		out = append(out, r.students[id])
	}
	return out, nil
}

type memAttemptRepo struct {
	mu       sync.Mutex
	next     uint
	attempts map[uint]*model.Attempt
	tests    *memTestRepo // window lookup for FindExpirable
}

func newMemAttemptRepo(tests *memTestRepo) *memAttemptRepo {
	return &memAttemptRepo{attempts: make(map[uint]*model.Attempt), tests: tests}
}

func (r *memAttemptRepo) Create(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	attempt.ID = r.next
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *memAttemptRepo) Update(attempt *model.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *memAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (r *memAttemptRepo) FindByTestAndStudent(testID, studentID uint) (*model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.TestID == testID && a.StudentID == studentID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAttemptRepo) FindByTestID(testID uint) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.TestID == testID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAttemptRepo) FindExpirable(now time.Time) ([]model.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.Status != model.StatusInProgress && a.Status != model.StatusBlocked {
			continue
		}
		test, ok := r.tests.tests[a.TestID]
		if ok && test.WindowEnd.Before(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type memViolationRepo struct {
	mu     sync.Mutex
	next   uint
	events []model.ViolationEvent
}

func newMemViolationRepo() *memViolationRepo {
	return &memViolationRepo{}
}

func (r *memViolationRepo) Append(event *model.ViolationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	event.ID = r.next
	r.events = append(r.events, *event)
	return nil
}

func (r *memViolationRepo) CountByAttempt(attemptID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.events {
		if e.AttemptID == attemptID {
			count++
		}
	}
	return count, nil
}

func (r *memViolationRepo) FindRecentByAttempt(attemptID uint, limit int) ([]model.ViolationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.ViolationEvent
	for _, e := range r.events {
		if e.AttemptID == attemptID {
			matched = append(matched, e)
		}
	}
	// newest first by occurred_at, append order breaking ties
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
