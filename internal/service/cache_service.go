package service

import (
	"context"
	"encoding/json"

	"lms_progress_backend/pkg/logger"
	"lms_progress_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ProgressCache 计算结果的 Redis 读穿缓存
//
// 缓存永远不承载正确性：任何后端故障都降级为未命中并重新计算，
// 不向调用方暴露错误。值为 JSON，不设 TTL，失效完全由事件驱动
type ProgressCache struct {
	rdb *redis.Client
}

func NewProgressCache(rdb *redis.Client) *ProgressCache {
	return &ProgressCache{rdb: rdb}
}

// GetJSON 命中时反序列化到 dest 并返回 true；未命中、后端故障、
// 数据损坏一律返回 false
func (c *ProgressCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		monitoring.CacheMisses.Inc()
		return false
	}
	if err != nil {
		logger.Log.Warn("cache read failed, falling back to recompute",
			zap.String("key", key), zap.Error(err))
		monitoring.CacheMisses.Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Log.Warn("cache value corrupted, falling back to recompute",
			zap.String("key", key), zap.Error(err))
		monitoring.CacheMisses.Inc()
		return false
	}

	monitoring.CacheHits.Inc()
	return true
}

// SetJSON 尽力写入，失败只记日志
func (c *ProgressCache) SetJSON(ctx context.Context, key string, val interface{}) {
	if c.rdb == nil {
		return
	}

	data, err := json.Marshal(val)
	if err != nil {
		logger.Log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete 幂等删除，键不存在不算错误，后端故障记日志后吞掉
func (c *ProgressCache) Delete(ctx context.Context, keys ...string) {
	if c.rdb == nil || len(keys) == 0 {
		return
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("cache eviction failed",
			zap.Strings("keys", keys), zap.Error(err))
		return
	}
	monitoring.CacheEvictions.Add(float64(len(keys)))
}

// DeleteByPattern 按模式扫描删除，供按用户粗粒度清理使用
func (c *ProgressCache) DeleteByPattern(ctx context.Context, pattern string) {
	if c.rdb == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		c.Delete(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("cache pattern scan failed",
			zap.String("pattern", pattern), zap.Error(err))
	}
}
