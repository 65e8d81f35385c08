package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/metrics"
)

// Cache tags. A key is tagged with every entity type its value is computed
// from; a write invalidates the tags of the entity types it changes.
const (
	TagAlerts      = "alerts"
	TagRescueForms = "rescueForms"
	TagReports     = "reports" // post rescue forms
	TagGroups      = "groups"  // community groups and their focal persons
	TagTerminals   = "terminals"
)

// 缓存过期时间
const (
	TTLAlerts      = 10 * time.Second
	TTLMapAlerts   = 10 * time.Second
	TTLGroups      = 60 * time.Second
	TTLTerminals   = 60 * time.Second
	TTLRescueForms = 60 * time.Second
	TTLReports     = 300 * time.Second
)

// InterfaceCacheService defines the read-through cache used by the dispatch services
type InterfaceCacheService interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string)
	// TagVersions snapshots the tag versions before a load; ok is false when
	// the backend is unavailable.
	TagVersions(ctx context.Context, tags ...string) (versions []int64, ok bool)
	// SetIfFresh stores value unless a tag was invalidated after versions were read.
	SetIfFresh(ctx context.Context, key string, value interface{}, ttl time.Duration, tags []string, versions []int64) bool
	Delete(ctx context.Context, keys ...string)
	InvalidateTags(ctx context.Context, tags ...string)
	Stats(ctx context.Context) map[string]interface{}
	Ping(ctx context.Context) error
}

// CacheService wraps a cache backend. Backend failures are logged and
// swallowed: reads fall through to the store and writes are skipped.
type CacheService struct {
	backend cache.Backend
	logger  *zap.Logger

	hits          atomic.Int64
	misses        atomic.Int64
	errors        atomic.Int64
	invalidations atomic.Int64
	staleSkips    atomic.Int64
}

// NewCacheService 创建缓存服务
func NewCacheService(backend cache.Backend, logger *zap.Logger) InterfaceCacheService {
	return &CacheService{
		backend: backend,
		logger:  logger.Named("cache"),
	}
}

// 1 Get 读取缓存
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			s.misses.Add(1)
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		} else {
			s.errors.Add(1)
			metrics.CacheRequests.WithLabelValues("error").Inc()
			s.logger.Warn("cache get failed, bypassing", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.errors.Add(1)
		s.logger.Warn("cache entry undecodable, dropping", zap.String("key", key), zap.Error(err))
		s.Delete(ctx, key)
		return false
	}
	s.hits.Add(1)
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return true
}

// 2 Set 写入缓存
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, key, raw, ttl, tags...); err != nil {
		s.errors.Add(1)
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// TagVersions 读取标签版本
func (s *CacheService) TagVersions(ctx context.Context, tags ...string) ([]int64, bool) {
	versions, err := s.backend.TagVersions(ctx, tags...)
	if err != nil {
		s.errors.Add(1)
		s.logger.Warn("cache tag versions unavailable", zap.Strings("tags", tags), zap.Error(err))
		return nil, false
	}
	return versions, true
}

// SetIfFresh 条件写入缓存，标签在读取后失效过则放弃
func (s *CacheService) SetIfFresh(ctx context.Context, key string, value interface{}, ttl time.Duration, tags []string, versions []int64) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return false
	}
	stored, err := s.backend.SetIfFresh(ctx, key, raw, ttl, tags, versions)
	if err != nil {
		s.errors.Add(1)
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !stored {
		s.staleSkips.Add(1)
		metrics.CacheRequests.WithLabelValues("stale_skip").Inc()
		s.logger.Debug("cache set skipped, tag invalidated during load", zap.String("key", key))
	}
	return stored
}

// 3 Delete 删除缓存
func (s *CacheService) Delete(ctx context.Context, keys ...string) {
	if err := s.backend.Delete(ctx, keys...); err != nil {
		s.errors.Add(1)
		s.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// 4 InvalidateTags 按标签失效缓存
func (s *CacheService) InvalidateTags(ctx context.Context, tags ...string) {
	if len(tags) == 0 {
		return
	}
	if err := s.backend.InvalidateTags(ctx, tags...); err != nil {
		s.errors.Add(1)
		s.logger.Error("cache invalidation failed, stale entries live until ttl",
			zap.Strings("tags", tags), zap.Error(err))
		return
	}
	s.invalidations.Add(int64(len(tags)))
	for _, tag := range tags {
		metrics.CacheInvalidations.WithLabelValues(tag).Inc()
	}
}

// 5 Stats 获取缓存统计信息
func (s *CacheService) Stats(ctx context.Context) map[string]interface{} {
	stats := s.backend.Stats(ctx)
	stats["hits"] = s.hits.Load()
	stats["misses"] = s.misses.Load()
	stats["errors"] = s.errors.Load()
	stats["invalidations"] = s.invalidations.Load()
	stats["stale_skips"] = s.staleSkips.Load()
	return stats
}

// 6 Ping 检查缓存后端
func (s *CacheService) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// remember returns the cached value for key or computes, stores and returns it.
// The tag versions are read before load, so a value computed before a
// concurrent write committed is returned but never cached.
func remember[T any](ctx context.Context, c InterfaceCacheService, key string, ttl time.Duration, tags []string, load func() (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}
	versions, fresh := c.TagVersions(ctx, tags...)
	value, err := load()
	if err != nil {
		return value, err
	}
	if fresh {
		c.SetIfFresh(ctx, key, value, ttl, tags, versions)
	}
	return value, nil
}
