package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrefersEnvTypePrefix(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("DB_HOST", "fallback-host")
	t.Setenv("SERVER_DB_HOST", "db.internal")
	t.Setenv("SERVER_DB_USER", "resq")
	t.Setenv("SERVER_DB_NAME", "resqwave")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "cache.internal:6379", cfg.GetRedisAddr())
	assert.Equal(t, 30*time.Second, cfg.CacheBreakerTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadMemoryDriverNeedsNoDatabase(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "resqwave/terminal", cfg.MQTTTopicPrefix)
}

func TestLoadRejectsMissingDatabaseHost(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("LOCAL_DB_HOST", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCAL_DB_")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_driver: memory\nallowed_origins: \"https://ops.example, https://map.example\"\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://ops.example", "https://map.example"}, cfg.AllowedOrigins)
}
