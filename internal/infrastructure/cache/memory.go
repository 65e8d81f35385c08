package cache

import (
	"context"
	"sync"
	"time"
)

// 缓存条目
type cacheEntry struct {
	Content    []byte
	Expiration time.Time
	Tags       []string
}

// MemoryBackend 内存缓存
type MemoryBackend struct {
	sync.RWMutex
	items    map[string]cacheEntry
	tags     map[string]map[string]struct{}
	versions map[string]int64 // 标签失效次数
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryBackend creates an in-process backend. A positive cleanupInterval
// starts a janitor that evicts expired entries.
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	m := &MemoryBackend{
		items:    make(map[string]cacheEntry),
		tags:     make(map[string]map[string]struct{}),
		versions: make(map[string]int64),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

// Name 返回后端名称
func (m *MemoryBackend) Name() string { return "memory" }

// Get 获取缓存
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.RLock()
	entry, ok := m.items[key]
	m.RUnlock()
	if !ok || !entry.Expiration.After(m.now()) {
		return nil, ErrMiss
	}
	return entry.Content, nil
}

// Set 写入缓存
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	if ttl <= 0 {
		return ErrNoTTL
	}
	m.Lock()
	defer m.Unlock()
	m.setLocked(key, value, ttl, tags)
	return nil
}

// SetIfFresh 仅当标签版本未变化时写入
func (m *MemoryBackend) SetIfFresh(_ context.Context, key string, value []byte, ttl time.Duration, tags []string, versions []int64) (bool, error) {
	if ttl <= 0 {
		return false, ErrNoTTL
	}
	if len(versions) != len(tags) {
		return false, ErrVersionMismatch
	}
	m.Lock()
	defer m.Unlock()
	for i, tag := range tags {
		if m.versions[tag] != versions[i] {
			return false, nil
		}
	}
	m.setLocked(key, value, ttl, tags)
	return true, nil
}

// TagVersions 读取标签版本
func (m *MemoryBackend) TagVersions(_ context.Context, tags ...string) ([]int64, error) {
	m.RLock()
	defer m.RUnlock()
	out := make([]int64, len(tags))
	for i, tag := range tags {
		out[i] = m.versions[tag]
	}
	return out, nil
}

func (m *MemoryBackend) setLocked(key string, value []byte, ttl time.Duration, tags []string) {
	m.removeLocked(key)
	m.items[key] = cacheEntry{
		Content:    value,
		Expiration: m.now().Add(ttl),
		Tags:       tags,
	}
	for _, tag := range tags {
		set, ok := m.tags[tag]
		if !ok {
			set = make(map[string]struct{})
			m.tags[tag] = set
		}
		set[key] = struct{}{}
	}
}

// Delete 删除缓存
func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	m.Lock()
	defer m.Unlock()
	for _, key := range keys {
		m.removeLocked(key)
	}
	return nil
}

// InvalidateTags 按标签清除缓存
func (m *MemoryBackend) InvalidateTags(_ context.Context, tags ...string) error {
	m.Lock()
	defer m.Unlock()
	for _, tag := range tags {
		m.versions[tag]++
		for key := range m.tags[tag] {
			m.removeLocked(key)
		}
		delete(m.tags, tag)
	}
	return nil
}

func (m *MemoryBackend) removeLocked(key string) {
	entry, ok := m.items[key]
	if !ok {
		return
	}
	for _, tag := range entry.Tags {
		if set, ok := m.tags[tag]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(m.tags, tag)
			}
		}
	}
	delete(m.items, key)
}

// Ping always succeeds
func (m *MemoryBackend) Ping(context.Context) error { return nil }

// Stats 获取缓存统计信息
func (m *MemoryBackend) Stats(context.Context) map[string]interface{} {
	m.RLock()
	defer m.RUnlock()

	now := m.now()
	items := make([]map[string]interface{}, 0, len(m.items))
	for key, entry := range m.items {
		items = append(items, map[string]interface{}{
			"key":        key,
			"size":       len(entry.Content),
			"tags":       entry.Tags,
			"expiration": entry.Expiration.Format(time.RFC3339),
			"expired":    !entry.Expiration.After(now),
		})
	}
	return map[string]interface{}{
		"backend":     m.Name(),
		"total_items": len(m.items),
		"total_tags":  len(m.tags),
		"items":       items,
	}
}

// Close stops the janitor
func (m *MemoryBackend) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// 定期清理过期缓存
func (m *MemoryBackend) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanExpired()
		case <-m.stop:
			return
		}
	}
}

// cleanExpired 清理过期缓存
func (m *MemoryBackend) cleanExpired() {
	now := m.now()

	m.Lock()
	defer m.Unlock()

	for key, entry := range m.items {
		if !entry.Expiration.After(now) {
			m.removeLocked(key)
		}
	}
}
