package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTestController struct {
	testService    service.TestService
	attemptService service.AttemptService
	answerService  service.AnswerService
	resultService  service.ResultService
}

func NewUserTestController(
	testService service.TestService,
	attemptService service.AttemptService,
	answerService service.AnswerService,
	resultService service.ResultService,
) *UserTestController {
	return &UserTestController{
		testService:    testService,
		attemptService: attemptService,
		answerService:  answerService,
		resultService:  resultService,
	}
}

// GetTest godoc
// @Summary Get a test with its parts and questions
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} dto.DataResponse{data=dto.TestDTO}
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Store failure"
// @Router /tests/{id} [get]
func (c *UserTestController) GetTest(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	test, err := c.testService.GetTest(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to fetch test")
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: test})
}

// GetTestGroup godoc
// @Summary Get a test group with every test fully nested
// @Tags Tests
// @Produce json
// @Param id path int true "Test group ID"
// @Success 200 {object} dto.DataResponse{data=dto.TestGroupDTO}
// @Failure 400 {object} dto.ErrorResponse "Invalid test group ID"
// @Failure 404 {object} dto.ErrorResponse "Test group not found"
// @Failure 500 {object} dto.ErrorResponse "Store failure"
// @Router /test-groups/{id} [get]
func (c *UserTestController) GetTestGroup(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	group, err := c.testService.GetTestGroup(ctx.Request.Context(), id)
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to fetch test group")
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: group})
}

// GetCurrentAttempt godoc
// @Summary Resolve the attempt a student should resume or start
// @Description Returns the live attempt number and the answers already saved for it.
// @Tags Attempts
// @Produce json
// @Param id path int true "Test ID"
// @Param studentId query string true "Student ID"
// @Param testGroupId query int false "Test group ID"
// @Success 200 {object} dto.DataResponse{data=dto.CurrentAttemptResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Session expired"
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/attempts/current [get]
func (c *UserTestController) GetCurrentAttempt(ctx *gin.Context) {
	testID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var q dto.CurrentAttemptQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	current, err := c.attemptService.ResolveCurrentAttempt(ctx.Request.Context(), repository.Scope{
		TestID:      testID,
		StudentID:   q.StudentID,
		TestGroupID: q.TestGroupID,
	})
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to resolve current attempt")
		return
	}

	resp := dto.CurrentAttemptResponse{Attempt: current.Attempt, Answers: make([]dto.AttemptAnswerDTO, 0, len(current.Answers))}
	for _, a := range current.Answers {
		resp.Answers = append(resp.Answers, dto.AttemptAnswerDTO{ID: a.ID, QuestionID: a.QuestionID, Value: a.Value})
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: resp})
}

// UpsertAnswer godoc
// @Summary Save the answer to one question of an attempt
// @Description Creates the answer row on first save and updates it in place afterwards.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param answer body dto.AnswerUpsertRequest true "Answer"
// @Success 200 {object} dto.DataResponse{data=dto.AnswerUpsertResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Session expired"
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/answers [put]
func (c *UserTestController) UpsertAnswer(ctx *gin.Context) {
	testID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AnswerUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpsertAnswer: Failed to bind JSON")
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	id, err := c.answerService.UpsertAnswer(ctx.Request.Context(), service.UpsertAnswerInput{
		Scope:             repository.Scope{TestID: testID, StudentID: req.StudentID, TestGroupID: req.TestGroupID},
		Attempt:           req.Attempt,
		QuestionID:        req.QuestionID,
		Value:             req.Value,
		Attachment:        req.Attachment,
		WritingSubmission: req.WritingSubmission,
	})
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to save answer")
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: dto.AnswerUpsertResponse{ID: id}})
}

// FinalizeResult godoc
// @Summary Finalize an attempt
// @Description Writes the result row of the attempt. Calling it again for the same attempt returns the existing result with created=false.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param result body dto.ResultRequest true "Attempt to finalize"
// @Success 201 {object} dto.DataResponse{data=dto.ResultResponse} "Result created"
// @Success 200 {object} dto.DataResponse{data=dto.ResultResponse} "Attempt was already finalized"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Session expired"
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/results [post]
func (c *UserTestController) FinalizeResult(ctx *gin.Context) {
	testID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("FinalizeResult: Failed to bind JSON")
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	result, err := c.resultService.FinalizeResult(ctx.Request.Context(), service.FinalizeResultInput{
		Scope:          repository.Scope{TestID: testID, StudentID: req.StudentID, TestGroupID: req.TestGroupID},
		Attempt:        req.Attempt,
		ElapsedSeconds: req.ElapsedSeconds,
		Type:           req.Type,
	})
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to finalize result")
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.DataResponse{Success: true, Data: dto.ResultResponse{ID: result.ID, Created: result.Created}})
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = ctx.Error(&service.ValidationError{Field: name, Message: "must be a positive numeric id"})
		return 0, false
	}
	return uint(id), true
}
