package service

import (
	"context"

	"lms_progress_backend/internal/model"
	"lms_progress_backend/pkg/logger"

	"go.uber.org/zap"
)

// cacheEvictor 协调器对缓存后端的最小依赖，测试时可替换为记录器
type cacheEvictor interface {
	Delete(ctx context.Context, keys ...string)
	DeleteByPattern(ctx context.Context, pattern string)
}

// CacheInvalidationCoordinator 级联缓存失效协调器
//
// 完成事实（新提交、新完成记录、改分）写入后同步触发，
// 推导受影响的全部缓存键并逐层驱逐。尽力而为：驱逐失败
// 只记日志，绝不让写路径因此失败
type CacheInvalidationCoordinator struct {
	cache cacheEvictor
}

func NewCacheInvalidationCoordinator(cache cacheEvictor) *CacheInvalidationCoordinator {
	return &CacheInvalidationCoordinator{cache: cache}
}

// FactChanged 完成事实变化的总入口
// 驱逐顺序与键表一致：尝试列表 → 单元 → 阶段 → 项目 → 用户进度 → 班级 → 会话
func (c *CacheInvalidationCoordinator) FactChanged(ctx context.Context, scope FactScope) {
	keys := KeysForFactChange(scope)
	c.cache.Delete(ctx, keys...)
	logger.Log.Debug("evicted caches for fact change",
		zap.Uint("userId", scope.UserID),
		zap.Uint("subconceptId", scope.SubconceptID),
		zap.Int("keys", len(keys)))
}

// EvictForUser 供提交方调用的命令式接口：清掉某用户在某项目下的报表缓存
func (c *CacheInvalidationCoordinator) EvictForUser(ctx context.Context, userID, programID uint, role model.UserRole) {
	c.cache.Delete(ctx,
		ProgramReportKey(userID, programID, role),
		UserProgressKey(programID, userID, role),
		UserSessionKey(userID),
	)
}

// EvictAllForUser 按用户粗粒度清空全部派生缓存
func (c *CacheInvalidationCoordinator) EvictAllForUser(ctx context.Context, userID uint) {
	for _, pattern := range PatternsForUser(userID) {
		c.cache.DeleteByPattern(ctx, pattern)
	}
}

// EvictCohort 班级报表缓存失效（成员变动、配置调整后调用）
func (c *CacheInvalidationCoordinator) EvictCohort(ctx context.Context, programID, cohortID uint) {
	c.cache.Delete(ctx, CohortProgressKey(programID, cohortID))
}
