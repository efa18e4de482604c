package controller

import (
	"errors"
	"net/http"

	"mcq_platform_backend/internal/service"
	"mcq_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

func (c *AttemptController) respondFlowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTestNotFound):
		util.Error(ctx, http.StatusNotFound, "Test not found")
	case errors.Is(err, util.ErrSessionUnknown):
		util.Error(ctx, http.StatusNotFound, "Attempt session not found or expired")
	case errors.Is(err, util.ErrInvalidInput):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNameRequired):
		util.UnprocessableEntity(ctx, "Student name is required")
	case errors.Is(err, util.ErrIncompleteAnswers):
		util.UnprocessableEntity(ctx, "Please answer all questions before submitting the test")
	case errors.Is(err, util.ErrLoadFailure):
		util.Error(ctx, http.StatusBadGateway, "Test is unavailable, please try again later")
	default:
		util.LogInternalError(ctx, err)
	}
}

type StartAttemptRequest struct {
	StudentName     string `json:"studentName"`
	ImmediateReveal bool   `json:"immediateReveal"`
}

// StartAttempt godoc
// @Summary Start a test attempt
// @Description Creates a server-side session for taking a test
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param body body StartAttemptRequest false "Attempt options"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "Test not found"
// @Router /api/tests/{id}/attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	testID := ctx.Param("id")

	var req StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.StartAttempt(ctx.Request.Context(), testID, req.StudentName, req.ImmediateReveal)
	if err != nil {
		c.respondFlowError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// GetSession godoc
// @Summary Get attempt session state
// @Tags attempts
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response "Session not found or expired"
// @Router /api/attempts/{sessionId} [get]
func (c *AttemptController) GetSession(ctx *gin.Context) {
	view, err := c.Service.GetSession(ctx.Request.Context(), ctx.Param("sessionId"))
	if err != nil {
		c.respondFlowError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type RecordAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required,oneof=A B C D"`
}

// RecordAnswer godoc
// @Summary Record an answer
// @Description Stores or replaces the selection for a question in the session
// @Tags attempts
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param body body RecordAnswerRequest true "Selected option"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/attempts/{sessionId}/answers [put]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	var req RecordAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.RecordAnswer(ctx.Request.Context(), ctx.Param("sessionId"), req.QuestionID, req.Answer)
	if err != nil {
		c.respondFlowError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// NextQuestion godoc
// @Summary Move to the next question
// @Description Advances the current-question pointer; a no-op at the last question
// @Tags attempts
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/attempts/{sessionId}/next [post]
func (c *AttemptController) NextQuestion(ctx *gin.Context) {
	view, err := c.Service.Navigate(ctx.Request.Context(), ctx.Param("sessionId"), true)
	if err != nil {
		c.respondFlowError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// PreviousQuestion godoc
// @Summary Move to the previous question
// @Description Moves the current-question pointer back; a no-op at the first question
// @Tags attempts
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/attempts/{sessionId}/previous [post]
func (c *AttemptController) PreviousQuestion(ctx *gin.Context) {
	view, err := c.Service.Navigate(ctx.Request.Context(), ctx.Param("sessionId"), false)
	if err != nil {
		c.respondFlowError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

type SubmitRequest struct {
	StudentName string `json:"studentName"`
}

// Submit godoc
// @Summary Submit a test attempt
// @Description Scores the attempt and persists one attempt record
// @Tags attempts
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param body body SubmitRequest false "Student name if not set at start"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 422 {object} util.Response "Missing name or incomplete answers"
// @Failure 500 {object} util.Response{data=service.SubmitResult} "Persistence failed; score retained"
// @Router /api/attempts/{sessionId}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Request.Context(), ctx.Param("sessionId"), req.StudentName)
	if err != nil {
		if errors.Is(err, util.ErrAttemptPersist) && result != nil {
			// The score is computed and kept; only the durable record failed.
			// The caller decides whether to retry.
			util.ErrorWithData(ctx, http.StatusInternalServerError, "Failed to submit test", result)
			return
		}
		c.respondFlowError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
