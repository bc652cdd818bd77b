package student

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Surikat/internal/apperr"
	"github.com/lshigami/Surikat/internal/dto"
	"github.com/lshigami/Surikat/internal/service"
	"github.com/rs/zerolog/log"
)

// AttemptController exposes the student-facing attempt mutations. Every
// endpoint returns the resulting attempt state so the exam runner can render
// from the authoritative record.
type AttemptController struct {
	attemptSvc service.AttemptService
}

func NewAttemptController(attemptSvc service.AttemptService) *AttemptController {
	return &AttemptController{attemptSvc: attemptSvc}
}

// StartAttempt godoc
// @Summary (Student) Start a test attempt
// @Description Creates the attempt row for a rostered student while the test window is open.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param body body dto.StartAttemptDTO true "Student starting the attempt"
// @Success 201 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Test or student not found"
// @Failure 409 {object} dto.ErrorResponse "Already started or window closed"
// @Router /tests/{test_id}/attempts/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	testID, ok := pathID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.StartAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptSvc.Start(testID, req.StudentID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Uint("studentID", req.StudentID).Msg("StartAttempt rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAttemptState(attempt))
}

// RecordAnswer godoc
// @Summary (Student) Record answer progress
// @Description Updates the answered count for an in-progress attempt. Rejected while blocked.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param body body dto.RecordAnswerDTO true "Absolute answered count"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not active"
// @Router /attempts/{attempt_id}/answer [post]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.RecordAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptSvc.RecordAnswer(attemptID, *req.AnsweredCount)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("RecordAnswer rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAttemptState(attempt))
}

// SubmitAttempt godoc
// @Summary (Student) Submit an attempt
// @Description Completes an in-progress attempt. Idempotent: re-submitting returns the terminal state.
// @Tags Student - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt blocked"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}

	attempt, err := c.attemptSvc.Submit(attemptID)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAttemptState(attempt))
}

// ReportViolation godoc
// @Summary (Student runner) Report an integrity violation
// @Description Appends the event to the ledger and applies the auto-block policy.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param body body dto.ViolationReportDTO true "Violation event"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /attempts/{attempt_id}/violations [post]
func (c *AttemptController) ReportViolation(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.ViolationReportDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.attemptSvc.RecordViolation(attemptID, req)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Str("eventType", req.EventType).Msg("ReportViolation rejected")
		ctx.JSON(apperr.Status(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAttemptState(attempt))
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
