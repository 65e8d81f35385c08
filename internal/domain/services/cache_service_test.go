package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/memstore"
)

func redisCache(t *testing.T) (*miniredis.Miniredis, InterfaceCacheService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	backend := cache.NewBreakerBackend(
		cache.NewRedisBackend(client, "resqwave:"),
		cache.BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute},
		zap.NewNop())
	return mr, NewCacheService(backend, zap.NewNop())
}

func TestRememberLoadsOnceThenServesFromCache(t *testing.T) {
	ctx := context.Background()
	mr, c := redisCache(t)

	loads := 0
	load := func() ([]models.Terminal, error) {
		loads++
		return []models.Terminal{{ID: "T001", Name: "Node"}}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := remember(ctx, c, terminalListKey(false), TTLTerminals, terminalTags, load)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "T001", got[0].ID)
	}
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists("resqwave:terminals:active"))
	members, err := mr.SMembers("resqwave:tag:terminals")
	require.NoError(t, err)
	assert.Contains(t, members, "resqwave:terminals:active")

	c.InvalidateTags(ctx, TagTerminals)
	_, err = remember(ctx, c, terminalListKey(false), TTLTerminals, terminalTags, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)

	stats := c.Stats(ctx)
	assert.Equal(t, int64(2), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
	assert.Equal(t, "closed", stats["circuit_state"])
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	_, c := redisCache(t)

	boom := errors.New("db down")
	_, err := remember(ctx, c, alertKey("ALRT001"), TTLAlerts, alertTags, func() (*models.Alert, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	var dest models.Alert
	assert.False(t, c.Get(ctx, alertKey("ALRT001"), &dest))
}

func TestCacheOutageFallsThroughToStore(t *testing.T) {
	ctx := context.Background()
	mr, c := redisCache(t)
	mr.Close()

	loads := 0
	for i := 0; i < 5; i++ {
		got, err := remember(ctx, c, alertListKey(""), TTLAlerts, alertTags, func() ([]models.Alert, error) {
			loads++
			return []models.Alert{{ID: "ALRT001"}}, nil
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 5, loads, "every read goes to the store while the cache is down")

	// invalidation failures are swallowed
	c.InvalidateTags(ctx, TagAlerts)
	c.Delete(ctx, alertListKey(""))

	stats := c.Stats(ctx)
	assert.Equal(t, "open", stats["circuit_state"])
	assert.Positive(t, stats["errors"].(int64))
}

// Every mutation drops every key family that reads the entity it changed.
func TestTagSetsCoverDependentFamilies(t *testing.T) {
	contains := func(tags []string, tag string) bool {
		for _, x := range tags {
			if x == tag {
				return true
			}
		}
		return false
	}
	dependents := map[string][][]string{
		TagAlerts:      {alertTags, mapAlertTags, rescueFormTags, reportTags},
		TagGroups:      {groupTags, mapAlertTags, reportTags},
		TagTerminals:   {terminalTags, groupTags, mapAlertTags, reportTags},
		TagRescueForms: {rescueFormTags, reportTags},
		TagReports:     {rescueFormTags, reportTags},
	}
	for tag, families := range dependents {
		for _, tags := range families {
			assert.True(t, contains(tags, tag), "%v should carry %s", tags, tag)
		}
	}
}

// pausingAlertStore holds the first alert list read after it has loaded, until
// release is closed.
type pausingAlertStore struct {
	*memstore.Store
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *pausingAlertStore) Repositories() repository.Repositories {
	repos := s.Store.Repositories()
	repos.Alerts = &pausingAlertRepo{AlertRepository: repos.Alerts, store: s}
	return repos
}

type pausingAlertRepo struct {
	repository.AlertRepository
	store *pausingAlertStore
}

func (r *pausingAlertRepo) List(ctx context.Context, status models.AlertStatus) ([]models.Alert, error) {
	out, err := r.AlertRepository.List(ctx, status)
	r.store.once.Do(func() {
		close(r.store.loaded)
		<-r.store.release
	})
	return out, err
}

func TestReadLoadedBeforeWriteIsNotCached(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	backend := cache.NewMemoryBackend(0)
	defer backend.Close()
	cacheSvc := NewCacheService(backend, logger)

	store := &pausingAlertStore{
		Store:   memstore.NewStore(),
		loaded:  make(chan struct{}),
		release: make(chan struct{}),
	}
	term, err := NewTerminalService(store.Store, cacheSvc, logger).CreateTerminal(ctx, "Tumana Node")
	require.NoError(t, err)
	alerts := NewAlertService(store, cacheSvc, &recordingPublisher{}, syncRunner, logger)

	done := make(chan []models.Alert, 1)
	go func() {
		list, err := alerts.ListAlerts(ctx, "")
		assert.NoError(t, err)
		done <- list
	}()

	<-store.loaded
	_, err = alerts.TriggerAlert(ctx, term.ID, models.AlertTypeCritical, SourceREST)
	require.NoError(t, err)
	close(store.release)

	// the slow reader still answers with what it loaded
	assert.Empty(t, <-done)

	list, err := alerts.ListAlerts(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ALRT001", list[0].ID)
	assert.Equal(t, int64(1), cacheSvc.Stats(ctx)["stale_skips"])
}
