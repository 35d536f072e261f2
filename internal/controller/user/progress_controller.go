package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/lshigami/ieltsprep/internal/auth"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

const maxProgressBody = 64 << 10

type ProgressController struct {
	progressService service.ProgressService
}

func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// SaveProgress godoc
// @Summary Save a progress checkpoint
// @Description Upserts the remaining time, audio position and current part of an in-flight test. remainingTime never moves backwards; auxiliary fields are always written. The body may be sent as application/json or as text/plain (sendBeacon).
// @Tags Progress
// @Accept json,plain
// @Produce json
// @Param progress body dto.ProgressRequest true "Progress checkpoint"
// @Success 200 {object} dto.ProgressResponse "action is created, updated, partial_update or skipped"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields, or an unparsable body"
// @Failure 401 {object} dto.ErrorResponse "Session expired"
// @Failure 500 {object} dto.ErrorResponse "Failed to save progress"
// @Router /progress [post]
func (c *ProgressController) SaveProgress(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxProgressBody))
	if err != nil {
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	req, err := decodeProgressRequest(body)
	if err != nil {
		log.Warn().Err(err).Str("contentType", ctx.ContentType()).Msg("SaveProgress: unparsable body")
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		_ = ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	outcome, err := c.progressService.SaveProgress(ctx.Request.Context(), service.SaveProgressInput{
		Scope: repository.Scope{
			TestID:      *req.TestID,
			StudentID:   req.StudentID,
			TestGroupID: req.TestGroupID,
		},
		RemainingTime:      *req.RemainingTime,
		RemainingAudioTime: req.RemainingAudioTime,
		CurrentPart:        req.CurrentPart,
	})
	if err != nil {
		_ = ctx.Error(err).SetMeta("failed to save progress")
		return
	}
	ctx.JSON(http.StatusOK, progressResponse(outcome))
}

// ProgressRateKey counts progress pings per student and test, so students
// sharing one address do not drain each other's budget. The body is put back
// for the handler. Unparsable bodies fall back to the caller's subject or IP.
func ProgressRateKey(c *gin.Context) string {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProgressBody))
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err == nil {
		if req, err := decodeProgressRequest(body); err == nil && req.TestID != nil && req.StudentID != "" {
			return "progress:" + strconv.FormatUint(uint64(*req.TestID), 10) + ":" + req.StudentID
		}
	}
	if actor := c.GetString(auth.ActorKey); actor != "" {
		return "actor:" + actor
	}
	return "ip:" + c.ClientIP()
}

// decodeProgressRequest accepts a JSON object, or a JSON string holding one,
// whatever the declared content type.
func decodeProgressRequest(body []byte) (*dto.ProgressRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty request body")
	}
	if body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, err
		}
		body = bytes.TrimSpace([]byte(inner))
	}
	var req dto.ProgressRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func progressResponse(o *service.ProgressOutcome) dto.ProgressResponse {
	resp := dto.ProgressResponse{Success: true, Action: string(o.Action)}
	switch o.Action {
	case service.ProgressCreated:
		id := o.ID
		resp.ID = &id
	case service.ProgressUpdated:
		newTime := o.NewTime
		resp.PreviousTime = o.PreviousTime
		resp.NewTime = &newTime
	case service.ProgressPartialUpdated:
		attempted := o.AttemptedTime
		resp.Action = "partial_update"
		resp.CurrentTime = o.CurrentTime
		resp.AttemptedTime = &attempted
		resp.UpdatedFields = o.UpdatedFields
	case service.ProgressSkipped:
		attempted := o.AttemptedTime
		resp.CurrentTime = o.CurrentTime
		resp.AttemptedTime = &attempted
	}
	return resp
}
