package controller

import (
	"errors"

	"lms_progress_backend/internal/service"
	"lms_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 项目进度报表
// @Description 项目下全部阶段/单元/子概念的完成状态与解锁信息
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "项目ID"
// @Success 200 {object} util.Response
// @Router /api/programs/{programId}/progress [get]
func (c *ProgressController) GetProgramProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	programID := util.MustParseUint(ctx.Param("programId"))
	if programID == 0 {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	report, err := c.ProgressService.ProgramProgress(ctx.Request.Context(), claims.UserID, programID, claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 阶段进度报表
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param stageId path int true "阶段ID"
// @Success 200 {object} util.Response
// @Router /api/stages/{stageId}/progress [get]
func (c *ProgressController) GetStageProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stageID := util.MustParseUint(ctx.Param("stageId"))
	if stageID == 0 {
		util.BadRequest(ctx, "invalid stage id")
		return
	}

	report, err := c.ProgressService.StageProgress(ctx.Request.Context(), claims.UserID, stageID, claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrStageNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}

// @Summary 单元进度报表
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param unitId path int true "单元ID"
// @Success 200 {object} util.Response
// @Router /api/units/{unitId}/progress [get]
func (c *ProgressController) GetUnitProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	unitID := util.MustParseUint(ctx.Param("unitId"))
	if unitID == 0 {
		util.BadRequest(ctx, "invalid unit id")
		return
	}

	report, err := c.ProgressService.UnitProgress(ctx.Request.Context(), claims.UserID, unitID, claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrUnitNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
