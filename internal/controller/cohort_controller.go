package controller

import (
	"errors"

	"lms_progress_backend/internal/service"
	"lms_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CohortController struct {
	CohortService *service.CohortService
}

func NewCohortController(cohortService *service.CohortService) *CohortController {
	return &CohortController{CohortService: cohortService}
}

// @Summary 班组排行榜
// @Description 班组内活跃成员的积分排名与整体完成度
// @Tags 班组
// @Produce json
// @Security ApiKeyAuth
// @Param cohortId path int true "班组ID"
// @Success 200 {object} util.Response
// @Router /api/cohorts/{cohortId}/leaderboard [get]
func (c *CohortController) GetLeaderboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	cohortID := util.MustParseUint(ctx.Param("cohortId"))
	if cohortID == 0 {
		util.BadRequest(ctx, "invalid cohort id")
		return
	}

	report, err := c.CohortService.CohortProgress(ctx.Request.Context(), cohortID)
	if err != nil {
		if errors.Is(err, util.ErrCohortNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
