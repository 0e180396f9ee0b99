package controller

import (
	"errors"

	"lms_progress_backend/internal/repository"
	"lms_progress_backend/internal/service"
	"lms_progress_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	CurriculumRepo *repository.CurriculumRepository
	Invalidator    *service.CacheInvalidationCoordinator
}

func NewAdminController(curriculumRepo *repository.CurriculumRepository, invalidator *service.CacheInvalidationCoordinator) *AdminController {
	return &AdminController{CurriculumRepo: curriculumRepo, Invalidator: invalidator}
}

// @Summary 项目列表
// @Description 管理端查看全部培养项目
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/programs [get]
func (c *AdminController) ListPrograms(ctx *gin.Context) {
	programs, err := c.CurriculumRepo.ListPrograms()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, programs)
}

// @Summary 项目课程结构
// @Description 项目完整课程树：阶段、单元与子概念映射，均按 position 排序
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param programId path int true "项目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/programs/{programId} [get]
func (c *AdminController) GetProgram(ctx *gin.Context) {
	programID := util.MustParseUint(ctx.Param("programId"))
	if programID == 0 {
		util.BadRequest(ctx, "invalid program id")
		return
	}

	program, err := c.CurriculumRepo.FindProgramByID(programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, program)
}

type evictRequest struct {
	UserID    uint `json:"userId"`
	ProgramID uint `json:"programId"`
	CohortID  uint `json:"cohortId"`
}

// @Summary 手动清除进度缓存
// @Description 课程结构调整后按用户或班组清除缓存报表
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body evictRequest true "清除范围"
// @Success 200 {object} util.Response
// @Router /api/admin/cache/evict [post]
func (c *AdminController) EvictCache(ctx *gin.Context) {
	var req evictRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.UserID == 0 && req.CohortID == 0 {
		util.BadRequest(ctx, "userId or cohortId is required")
		return
	}

	if req.UserID != 0 {
		c.Invalidator.EvictAllForUser(ctx.Request.Context(), req.UserID)
	}
	if req.CohortID != 0 && req.ProgramID != 0 {
		c.Invalidator.EvictCohort(ctx.Request.Context(), req.ProgramID, req.CohortID)
	}

	util.Success(ctx, gin.H{"message": "缓存已清除"})
}
