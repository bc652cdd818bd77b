package supervisor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/service"
	"github.com/rs/zerolog/log"
)

// actorHeader carries the authenticated supervisor id. Real authentication is
// a gateway concern; this service only authorizes the id against test
// ownership.
const actorHeader = "X-Actor-ID"

type SupervisorController struct {
	supervisorSvc service.SupervisorService
	monitorSvc    service.MonitorService
}

func NewSupervisorController(supervisorSvc service.SupervisorService, monitorSvc service.MonitorService) *SupervisorController {
	return &SupervisorController{supervisorSvc: supervisorSvc, monitorSvc: monitorSvc}
}

// GetSnapshot godoc
// @Summary (Supervisor) Get the live monitoring snapshot of a test
// @Description One row per rostered student with state, progress, violations and recent events. Safe to poll.
// @Tags Supervisor - Monitoring
// @Produce json
// @Param test_id path int true "Test ID"
// @Param X-Actor-ID header int true "Supervisor ID"
// @Success 200 {object} dto.MonitorSnapshotDTO
// @Failure 403 {object} dto.ErrorResponse "Actor does not own the test"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /supervisor/tests/{test_id}/snapshot [get]
func (c *SupervisorController) GetSnapshot(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	actor, ok := actorID(ctx)
	if !ok {
		return
	}

	snapshot, err := c.monitorSvc.GetSnapshot(testID, actor)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Uint("actorID", actor).Msg("GetSnapshot failed")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// BlockAttempt godoc
// @Summary (Supervisor) Block a student's attempt
// @Description Suspends an in-progress attempt. Idempotent: blocking an already blocked attempt returns its state.
// @Tags Supervisor - Control
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param X-Actor-ID header int true "Supervisor ID"
// @Param body body dto.BlockRequestDTO false "Optional reason"
// @Success 200 {object} dto.SupervisorAttemptDTO
// @Failure 403 {object} dto.ErrorResponse "Actor does not own the test"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not in progress"
// @Router /supervisor/attempts/{attempt_id}/block [post]
func (c *SupervisorController) BlockAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	actorID, ok := actorID(ctx)
	if !ok {
		return
	}
	var req dto.BlockRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.supervisorSvc.Block(attemptID, actorID, req.Reason)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Uint("actorID", actorID).Msg("BlockAttempt rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// UnblockAttempt godoc
// @Summary (Supervisor) Unblock a student's attempt
// @Description Resumes a blocked attempt while the window is open. Idempotent on non-blocked attempts.
// @Tags Supervisor - Control
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param X-Actor-ID header int true "Supervisor ID"
// @Success 200 {object} dto.SupervisorAttemptDTO
// @Failure 403 {object} dto.ErrorResponse "Actor does not own the test"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Test window has ended"
// @Router /supervisor/attempts/{attempt_id}/unblock [post]
func (c *SupervisorController) UnblockAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	actorID, ok := actorID(ctx)
	if !ok {
		return
	}

	state, err := c.supervisorSvc.Unblock(attemptID, actorID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Uint("actorID", actorID).Msg("UnblockAttempt rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// UpdateIntegrityConfig godoc
// @Summary (Supervisor) Update a test's integrity config
// @Description Toggles cheat detection and overrides the violation threshold.
// @Tags Supervisor - Control
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param X-Actor-ID header int true "Supervisor ID"
// @Param body body dto.IntegrityConfigUpdateDTO true "New settings"
// @Success 200 {object} model.IntegrityConfig
// @Failure 403 {object} dto.ErrorResponse "Actor does not own the test"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /supervisor/tests/{test_id}/integrity-config [put]
func (c *SupervisorController) UpdateIntegrityConfig(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	actor, ok := actorID(ctx)
	if !ok {
		return
	}
	var req dto.IntegrityConfigUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	cfg, err := c.supervisorSvc.UpdateIntegrityConfig(testID, actor, req)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Uint("actorID", actor).Msg("UpdateIntegrityConfig rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func actorID(ctx *gin.Context) (uint, bool) {
	val, err := strconv.ParseUint(ctx.GetHeader(actorHeader), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing or invalid " + actorHeader + " header"})
		return 0, false
	}
	return uint(val), true
}
