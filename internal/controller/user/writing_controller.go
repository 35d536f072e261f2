package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
)

type WritingController struct {
	feedbackService service.WritingFeedbackService
}

func NewWritingController(feedbackService service.WritingFeedbackService) *WritingController {
	return &WritingController{feedbackService: feedbackService}
}

// EvaluateWriting godoc
// @Summary Get AI feedback on a writing answer
// @Description Scores the text against the IELTS writing band descriptors using Gemini.
// @Tags Writing
// @Accept json
// @Produce json
// @Param request body dto.WritingFeedbackRequest true "Question and answer text"
// @Success 200 {object} dto.DataResponse{data=dto.WritingFeedbackResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 503 {object} dto.ErrorResponse "Writing feedback is not configured"
// @Router /writing/feedback [post]
func (c *WritingController) EvaluateWriting(ctx *gin.Context) {
	var req dto.WritingFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	fb, err := c.feedbackService.Evaluate(ctx.Request.Context(), req.QuestionID, req.Text)
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to evaluate writing")
		return
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: dto.WritingFeedbackResponse{Band: fb.Band, Feedback: fb.Feedback}})
}
