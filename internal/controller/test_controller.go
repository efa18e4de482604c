package controller

import (
	"errors"
	"strconv"

	"mcq_platform_backend/internal/service"
	"mcq_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestController struct {
	Service *service.TestService
	Attempt *service.AttemptService
}

func NewTestController(svc *service.TestService, attemptSvc *service.AttemptService) *TestController {
	return &TestController{Service: svc, Attempt: attemptSvc}
}

// CreateTest godoc
// @Summary Create a test
// @Description Creates a test with its questions; all question fields must be complete
// @Tags tutor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestReq true "Test with questions"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "Incomplete test or questions"
// @Router /api/tutor/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.CreateTest(user.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, test)
}

// ListTests godoc
// @Summary List tests
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/tutor/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.Service.ListTests(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": tests, "total": total})
}

// GetTest godoc
// @Summary Get a test with its questions
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Test ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tutor/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	test, qs, err := c.Service.GetTest(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"test": test, "questions": qs})
}

// UpdateTest godoc
// @Summary Update a test
// @Tags tutor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Test ID"
// @Param body body service.TestReq true "Fields to update"
// @Success 200 {object} util.Response
// @Router /api/tutor/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.UpdateTest(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary Delete a test with its questions and attempts
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Test ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.Service.DeleteTest(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// ListAttempts godoc
// @Summary List attempts for a test
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Test ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param name query string false "Student name filter"
// @Success 200 {object} util.Response
// @Router /api/tutor/tests/{id}/attempts [get]
func (c *TestController) ListAttempts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	name := ctx.Query("name")

	attempts, total, err := c.Service.ListAttempts(ctx.Param("id"), page, limit, name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": attempts, "total": total})
}

// GetAttemptDetail godoc
// @Summary Get one attempt with its test and questions
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tutor/attempts/{id} [get]
func (c *TestController) GetAttemptDetail(ctx *gin.Context) {
	detail, err := c.Service.GetAttemptDetail(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, detail)
}

// ListTestsPublic godoc
// @Summary List available tests for students
// @Tags student
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/tests [get]
func (c *TestController) ListTestsPublic(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.Service.ListTests(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": tests, "total": total})
}

// GetTestPublic godoc
// @Summary Get a test as a student sees it
// @Description Returns the test and its questions without correct answers
// @Tags student
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) GetTestPublic(ctx *gin.Context) {
	test, questions, err := c.Attempt.LoadTest(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.Error(ctx, 502, "Test is unavailable, please try again later")
		}
		return
	}

	util.Success(ctx, gin.H{
		"test":          test,
		"questionCount": len(questions),
	})
}
