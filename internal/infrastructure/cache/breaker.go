package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/infrastructure/metrics"
)

// BreakerSettings configures the circuit breaker in front of a backend
type BreakerSettings struct {
	ConsecutiveFailures uint32        // failures in a row that open the circuit
	OpenTimeout         time.Duration // time spent open before probing again
}

// BreakerBackend guards another backend with a circuit breaker. While the
// circuit is open every call fails fast, which callers treat as a miss.
type BreakerBackend struct {
	inner  Backend
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger *zap.Logger
}

// NewBreakerBackend wraps inner with a circuit breaker
func NewBreakerBackend(inner Backend, s BreakerSettings, logger *zap.Logger) *BreakerBackend {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	name := "cache-" + inner.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	b := &BreakerBackend{inner: inner, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// A miss is a healthy answer.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return b
}

// Name 返回被保护后端的名称
func (b *BreakerBackend) Name() string { return b.inner.Name() }

// State reports the breaker state
func (b *BreakerBackend) State() gobreaker.State { return b.cb.State() }

// Get 获取缓存
func (b *BreakerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.inner.Get(ctx, key)
	})
}

// Set 写入缓存
func (b *BreakerBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.Set(ctx, key, value, ttl, tags...)
	})
	return err
}

// SetIfFresh 条件写入缓存
func (b *BreakerBackend) SetIfFresh(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string, versions []int64) (bool, error) {
	var stored bool
	_, err := b.cb.Execute(func() ([]byte, error) {
		var err error
		stored, err = b.inner.SetIfFresh(ctx, key, value, ttl, tags, versions)
		return nil, err
	})
	return stored, err
}

// TagVersions 读取标签版本
func (b *BreakerBackend) TagVersions(ctx context.Context, tags ...string) ([]int64, error) {
	var versions []int64
	_, err := b.cb.Execute(func() ([]byte, error) {
		var err error
		versions, err = b.inner.TagVersions(ctx, tags...)
		return nil, err
	})
	return versions, err
}

// Delete 删除缓存
func (b *BreakerBackend) Delete(ctx context.Context, keys ...string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.Delete(ctx, keys...)
	})
	return err
}

// InvalidateTags 按标签清除缓存
func (b *BreakerBackend) InvalidateTags(ctx context.Context, tags ...string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.InvalidateTags(ctx, tags...)
	})
	return err
}

// Ping bypasses the breaker so health checks see the real backend state.
func (b *BreakerBackend) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}

// Stats 获取缓存统计信息
func (b *BreakerBackend) Stats(ctx context.Context) map[string]interface{} {
	var stats map[string]interface{}
	if b.cb.State() == gobreaker.StateOpen {
		stats = map[string]interface{}{"backend": b.inner.Name()}
	} else {
		stats = b.inner.Stats(ctx)
	}
	counts := b.cb.Counts()
	stats["circuit_state"] = b.cb.State().String()
	stats["consecutive_failures"] = counts.ConsecutiveFailures
	return stats
}

// Close 关闭被保护的后端
func (b *BreakerBackend) Close() error {
	return b.inner.Close()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
