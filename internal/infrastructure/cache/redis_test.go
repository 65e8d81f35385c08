package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisBackend) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisBackend(client, "resqwave:")
}

func TestRedisBackend_SetGet(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)

	require.NoError(t, r.Set(ctx, "alert:ALRT001", []byte(`{"id":"ALRT001"}`), 10*time.Second, "alerts"))

	val, err := r.Get(ctx, "alert:ALRT001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ALRT001"}`, string(val))

	assert.True(t, mr.Exists("resqwave:alert:ALRT001"))
	members, err := mr.Members("resqwave:tag:alerts")
	require.NoError(t, err)
	assert.Equal(t, []string{"resqwave:alert:ALRT001"}, members)

	mr.FastForward(11 * time.Second)
	_, err = r.Get(ctx, "alert:ALRT001")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisBackend_InvalidateTags(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)

	require.NoError(t, r.Set(ctx, "alerts:all", []byte(`[]`), time.Minute, "alerts"))
	require.NoError(t, r.Set(ctx, "mapAlerts:active", []byte(`[]`), time.Minute, "alerts", "groups"))
	require.NoError(t, r.Set(ctx, "communityGroups:active", []byte(`[]`), time.Minute, "groups"))

	require.NoError(t, r.InvalidateTags(ctx, "alerts"))

	assert.False(t, mr.Exists("resqwave:alerts:all"))
	assert.False(t, mr.Exists("resqwave:mapAlerts:active"))
	assert.False(t, mr.Exists("resqwave:tag:alerts"))
	assert.True(t, mr.Exists("resqwave:communityGroups:active"))

	// invalidating an unknown tag is a no-op
	require.NoError(t, r.InvalidateTags(ctx, "rescueForms"))
}

func TestRedisBackend_Delete(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)

	require.NoError(t, r.Set(ctx, "terminal:T001", []byte(`{}`), time.Minute))
	require.NoError(t, r.Delete(ctx, "terminal:T001"))
	assert.False(t, mr.Exists("resqwave:terminal:T001"))
	require.NoError(t, r.Delete(ctx))
}

func TestRedisBackend_SetIfFreshRejectsAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)

	tags := []string{"reports", "alerts"}
	versions, err := r.TagVersions(ctx, tags...)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0}, versions)

	require.NoError(t, r.InvalidateTags(ctx, "alerts"))
	assert.Equal(t, "1", mustGet(t, mr, "resqwave:tagver:alerts"))

	stored, err := r.SetIfFresh(ctx, "pendingReports", []byte(`[]`), time.Minute, tags, versions)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("resqwave:pendingReports"))
	assert.False(t, mr.Exists("resqwave:tag:reports"))

	versions, err = r.TagVersions(ctx, tags...)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, versions)
	stored, err = r.SetIfFresh(ctx, "pendingReports", []byte(`[]`), time.Minute, tags, versions)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("resqwave:pendingReports"))
}

func TestRedisBackend_TagSetsExpireWithLongestMember(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)

	require.NoError(t, r.Set(ctx, "aggregatedReports:2025-07-01:2025-07-02", []byte(`[]`), 5*time.Minute, "reports"))
	require.NoError(t, r.Set(ctx, "pendingReports", []byte(`[]`), time.Minute, "reports"))
	assert.Equal(t, 5*time.Minute, mr.TTL("resqwave:tag:reports"))

	mr.FastForward(6 * time.Minute)
	assert.False(t, mr.Exists("resqwave:tag:reports"))
	assert.False(t, mr.Exists("resqwave:aggregatedReports:2025-07-01:2025-07-02"))

	assert.ErrorIs(t, r.Set(ctx, "k", []byte("v"), 0), ErrNoTTL)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
