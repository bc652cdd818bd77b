package service

import (
	"testing"

	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = uint(42)

func newSupervisorHarness(t *testing.T) (*harness, SupervisorService) {
	t.Helper()
	h := newHarness(t)
	return h, NewSupervisorService(h.svc, h.attempts, h.tests)
}

func TestSupervisorBlock(t *testing.T) {
	t.Run("owner blocks with reason echoed", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)

		state, err := sup.Block(attempt.ID, ownerID, "looking around")
		require.NoError(t, err)
		assert.True(t, state.IsBlocked)
		assert.Equal(t, model.StatusBlocked, state.Status)
		assert.Equal(t, "looking around", *state.BlockedReason)
	})

	t.Run("double block is idempotent", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)

		_, err := sup.Block(attempt.ID, ownerID, "first")
		require.NoError(t, err)
		state, err := sup.Block(attempt.ID, ownerID, "second")
		require.NoError(t, err)
		// the original reason survives the retry
		assert.Equal(t, "first", *state.BlockedReason)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)

		_, err := sup.Block(attempt.ID, 7, "nope")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		_, sup := newSupervisorHarness(t)
		_, err := sup.Block(123, ownerID, "")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestSupervisorUnblock(t *testing.T) {
	t.Run("owner unblocks a blocked attempt", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)
		_, err := sup.Block(attempt.ID, ownerID, "check")
		require.NoError(t, err)

		state, err := sup.Unblock(attempt.ID, ownerID)
		require.NoError(t, err)
		assert.False(t, state.IsBlocked)
		assert.Equal(t, model.StatusInProgress, state.Status)
	})

	t.Run("unblock on a non-blocked attempt is idempotent", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)

		state, err := sup.Unblock(attempt.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, state.Status)
	})

	t.Run("unblock after the window surfaces WindowClosed", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, studentID := h.seedTest(t, true)
		attempt, _ := h.svc.Start(testID, studentID)
		_, err := sup.Block(attempt.ID, ownerID, "check")
		require.NoError(t, err)

		h.clock = at(10, 5)
		_, err = sup.Unblock(attempt.ID, ownerID)
		assert.ErrorIs(t, err, apperr.ErrWindowClosed)
	})
}

func TestUpdateIntegrityConfig(t *testing.T) {
	enabled := true
	disabled := false

	t.Run("owner updates threshold", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, _ := h.seedTest(t, false)

		cfg, err := sup.UpdateIntegrityConfig(testID, ownerID, dto.IntegrityConfigUpdateDTO{
			CheatDetectionEnabled: &enabled,
			ViolationThreshold:    5,
		})
		require.NoError(t, err)
		assert.True(t, cfg.CheatDetectionEnabled)
		assert.Equal(t, 5, cfg.ViolationThreshold)

		test, err := h.tests.FindByID(testID)
		require.NoError(t, err)
		assert.Equal(t, 5, test.IntegrityConfig.ViolationThreshold)
	})

	t.Run("omitted threshold keeps the stored one", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, _ := h.seedTest(t, true)

		cfg, err := sup.UpdateIntegrityConfig(testID, ownerID, dto.IntegrityConfigUpdateDTO{
			CheatDetectionEnabled: &disabled,
		})
		require.NoError(t, err)
		assert.False(t, cfg.CheatDetectionEnabled)
		assert.Equal(t, 3, cfg.ViolationThreshold)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		h, sup := newSupervisorHarness(t)
		testID, _ := h.seedTest(t, true)

		_, err := sup.UpdateIntegrityConfig(testID, 7, dto.IntegrityConfigUpdateDTO{
			CheatDetectionEnabled: &enabled,
		})
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})
}
