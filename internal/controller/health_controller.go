package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, RDB: rdb}
}

// @Summary 健康检查
// @Description 检查服务及其依赖的数据库与 Redis 状态
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := gin.H{"status": "ok"}

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.PingContext(checkCtx) != nil {
		result["database"] = "down"
		result["status"] = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		result["database"] = "up"
	}

	// 缓存不可用时服务仍可降级运行，只标记状态
	if c.RDB.Ping(checkCtx).Err() != nil {
		result["cache"] = "down"
		if result["status"] == "ok" {
			result["status"] = "degraded"
		}
	} else {
		result["cache"] = "up"
	}

	ctx.JSON(status, result)
}
