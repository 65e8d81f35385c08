package cache

import (
	"context"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBreakerBackend_MissDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	_, r := setupTestRedis(t)
	b := NewBreakerBackend(r, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := b.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerBackend_OpensOnOutage(t *testing.T) {
	ctx := context.Background()
	mr, r := setupTestRedis(t)
	b := NewBreakerBackend(r, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute, "alerts"))
	mr.Close()

	_, err := b.Get(ctx, "k")
	require.Error(t, err)
	_, err = b.Get(ctx, "k")
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, b.State())

	// open circuit fails fast without touching redis
	err = b.InvalidateTags(ctx, "alerts")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	stats := b.Stats(ctx)
	assert.Equal(t, "open", stats["circuit_state"])
}
