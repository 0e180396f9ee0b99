package controller

import (
	"errors"

	"lms_progress_backend/internal/service"
	"lms_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// @Summary 提交学习尝试
// @Description 记录一次子概念的学习尝试并更新完成状态，相关进度缓存随即失效
// @Tags 尝试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitAttemptRequest true "尝试信息"
// @Success 201 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.SubmitAttempt(ctx.Request.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubconceptNotFound), errors.Is(err, util.ErrUnitNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrScoreExceedsMax),
			errors.Is(err, util.ErrInvalidTimeRange),
			errors.Is(err, util.ErrSubconceptNotInUnit):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, attempt)
}

// @Summary 查询尝试记录
// @Description 当前用户在某个子概念上的历史尝试，按开始时间倒序
// @Tags 尝试
// @Produce json
// @Security ApiKeyAuth
// @Param subconceptId path int true "子概念ID"
// @Success 200 {object} util.Response
// @Router /api/attempts/{subconceptId} [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subconceptID := util.MustParseUint(ctx.Param("subconceptId"))
	if subconceptID == 0 {
		util.BadRequest(ctx, "invalid subconcept id")
		return
	}

	attempts, err := c.AttemptService.ListAttempts(ctx.Request.Context(), claims.UserID, subconceptID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
