package app

import (
	"lms_progress_backend/docs"
	"lms_progress_backend/internal/config"
	"lms_progress_backend/internal/middleware"
	"lms_progress_backend/internal/model"
	"lms_progress_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		otp := public.Group("/auth/otp")
		{
			otp.POST("/request", c.auth.RequestOTP)
			otp.POST("/verify", c.auth.VerifyOTP)
		}
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 进度报表
		authGroup.GET("/programs/:programId/progress", c.progress.GetProgramProgress)
		authGroup.GET("/stages/:stageId/progress", c.progress.GetStageProgress)
		authGroup.GET("/units/:unitId/progress", c.progress.GetUnitProgress)

		// 尝试提交与历史
		authGroup.POST("/attempts", middleware.RoleMiddleware(model.Learner), c.attempt.SubmitAttempt)
		authGroup.GET("/attempts/:subconceptId", c.attempt.ListAttempts)

		// 班组排行榜：学员与导师均可查看
		authGroup.GET("/cohorts/:cohortId/leaderboard", c.cohort.GetLeaderboard)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/programs", c.admin.ListPrograms)
		admin.GET("/programs/:programId", c.admin.GetProgram)
		admin.POST("/cache/evict", c.admin.EvictCache)
	}
}
