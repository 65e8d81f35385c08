package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// The scripts below touch keys in several hash slots, so a single-node or
// sentinel Redis is assumed; Redis Cluster is not supported.

// setScript stores a value and registers it under its tags. With expected
// versions in ARGV it stores nothing when any tag was invalidated since they
// were read. A tag set lives as long as its longest-lived member.
//
// KEYS: value key, n tag sets, n tag version keys
// ARGV: value, ttl in ms, n, [n expected versions]
var setScript = redis.NewScript(`
local n = tonumber(ARGV[3])
if #ARGV > 3 then
	for i = 1, n do
		local current = tonumber(redis.call('GET', KEYS[n + 1 + i]) or '0')
		if current ~= tonumber(ARGV[3 + i]) then
			return 0
		end
	end
end
local ttl = tonumber(ARGV[2])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
for i = 1, n do
	local tag = KEYS[1 + i]
	redis.call('SADD', tag, KEYS[1])
	if redis.call('PTTL', tag) < ttl then
		redis.call('PEXPIRE', tag, ttl)
	end
end
return 1
`)

// invalidateScript bumps the tag version, then deletes every member of the tag
// set and the set itself in one step, so a concurrent Set cannot slip a key
// into a set that is being dropped.
//
// KEYS: tag set, tag version key
var invalidateScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
local keys = redis.call('SMEMBERS', KEYS[1])
for i = 1, #keys, 500 do
	redis.call('DEL', unpack(keys, i, math.min(i + 499, #keys)))
end
redis.call('DEL', KEYS[1])
return #keys
`)

// RedisBackend stores entries in Redis. Each tag is a set of the keys stored
// under it plus a version counter advanced on every invalidation.
type RedisBackend struct {
	Client *redis.Client
	prefix string
}

// NewRedisBackend 创建Redis缓存后端
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{Client: client, prefix: prefix}
}

// Name 返回后端名称
func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) key(k string) string    { return r.prefix + k }
func (r *RedisBackend) tagKey(t string) string { return r.prefix + "tag:" + t }
func (r *RedisBackend) verKey(t string) string { return r.prefix + "tagver:" + t }

// Get 获取缓存
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

// Set 写入缓存并登记标签
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := r.set(ctx, key, value, ttl, tags, nil)
	return err
}

// SetIfFresh 仅当标签版本未变化时写入
func (r *RedisBackend) SetIfFresh(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string, versions []int64) (bool, error) {
	if len(versions) != len(tags) {
		return false, ErrVersionMismatch
	}
	return r.set(ctx, key, value, ttl, tags, versions)
}

func (r *RedisBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string, versions []int64) (bool, error) {
	if ttl <= 0 {
		return false, ErrNoTTL
	}
	keys := make([]string, 0, 1+2*len(tags))
	keys = append(keys, r.key(key))
	for _, tag := range tags {
		keys = append(keys, r.tagKey(tag))
	}
	for _, tag := range tags {
		keys = append(keys, r.verKey(tag))
	}
	args := make([]interface{}, 0, 3+len(versions))
	args = append(args, value, ttl.Milliseconds(), len(tags))
	for _, v := range versions {
		args = append(args, v)
	}

	stored, err := setScript.Run(ctx, r.Client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// TagVersions 读取标签版本，未失效过的标签为0
func (r *RedisBackend) TagVersions(ctx context.Context, tags ...string) ([]int64, error) {
	out := make([]int64, len(tags))
	if len(tags) == 0 {
		return out, nil
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = r.verKey(tag)
	}
	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Delete 删除缓存
func (r *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.Client.Del(ctx, full...).Err()
}

// InvalidateTags 按标签清除缓存
func (r *RedisBackend) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		if err := invalidateScript.Run(ctx, r.Client, []string{r.tagKey(tag), r.verKey(tag)}).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return nil
}

// Ping 检查Redis连接
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Stats 获取缓存统计信息
func (r *RedisBackend) Stats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"backend": r.Name(),
		"prefix":  r.prefix,
	}
	if size, err := r.Client.DBSize(ctx).Result(); err == nil {
		stats["db_size"] = size
	} else {
		stats["error"] = err.Error()
	}
	pool := r.Client.PoolStats()
	stats["pool_hits"] = pool.Hits
	stats["pool_misses"] = pool.Misses
	stats["pool_total_conns"] = pool.TotalConns
	return stats
}

// Close 关闭Redis连接
func (r *RedisBackend) Close() error {
	return r.Client.Close()
}
