package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_TagInvalidation(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(0)
	defer m.Close()

	require.NoError(t, m.Set(ctx, "alerts:all", []byte(`[1]`), time.Minute, "alerts"))
	require.NoError(t, m.Set(ctx, "pendingReports", []byte(`[2]`), time.Minute, "alerts", "reports"))
	require.NoError(t, m.Set(ctx, "terminals:active", []byte(`[3]`), time.Minute, "terminals"))

	require.NoError(t, m.InvalidateTags(ctx, "alerts"))

	_, err := m.Get(ctx, "alerts:all")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "pendingReports")
	assert.ErrorIs(t, err, ErrMiss)

	val, err := m.Get(ctx, "terminals:active")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(val))

	// the reports tag no longer points at the removed key
	assert.NotContains(t, m.tags["reports"], "pendingReports")
}

func TestMemoryBackend_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(0)
	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "alert:ALRT001", []byte(`{}`), 10*time.Second, "alerts"))
	_, err := m.Get(ctx, "alert:ALRT001")
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	_, err = m.Get(ctx, "alert:ALRT001")
	assert.ErrorIs(t, err, ErrMiss)

	m.cleanExpired()
	assert.Empty(t, m.items)
	assert.Empty(t, m.tags)
}

func TestMemoryBackend_OverwriteMovesTags(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(0)

	require.NoError(t, m.Set(ctx, "k", []byte(`1`), time.Minute, "groups"))
	require.NoError(t, m.Set(ctx, "k", []byte(`2`), time.Minute, "terminals"))
	require.NoError(t, m.InvalidateTags(ctx, "groups"))

	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", string(val))

	require.NoError(t, m.Delete(ctx, "k"))
	assert.Equal(t, 0, m.Stats(ctx)["total_items"])
}

func TestMemoryBackend_SetIfFreshRejectsAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend(0)
	defer m.Close()

	tags := []string{"alerts", "groups"}
	versions, err := m.TagVersions(ctx, tags...)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0}, versions)

	require.NoError(t, m.InvalidateTags(ctx, "groups"))

	stored, err := m.SetIfFresh(ctx, "mapAlerts:all", []byte(`[]`), time.Minute, tags, versions)
	require.NoError(t, err)
	assert.False(t, stored)
	_, err = m.Get(ctx, "mapAlerts:all")
	assert.ErrorIs(t, err, ErrMiss)

	versions, err = m.TagVersions(ctx, tags...)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, versions)
	stored, err = m.SetIfFresh(ctx, "mapAlerts:all", []byte(`[]`), time.Minute, tags, versions)
	require.NoError(t, err)
	assert.True(t, stored)
	_, err = m.Get(ctx, "mapAlerts:all")
	require.NoError(t, err)

	_, err = m.SetIfFresh(ctx, "mapAlerts:all", []byte(`[]`), time.Minute, tags, versions[:1])
	assert.ErrorIs(t, err, ErrVersionMismatch)
}
