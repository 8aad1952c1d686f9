package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "FLOWSPACE_USER_ID",
		"DATABASE_URL", "SQLITE_PATH", "REDIS_URL", "RABBITMQ_URL",
		"ORACLE_URL", "ORACLE_API_KEY", "ORACLE_MODEL",
		"ORACLE_TIMEOUT", "ORACLE_CACHE_TTL", "ORACLE_CACHE_ENABLED",
		"ORACLE_CONFIDENCE_FLOOR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.HasPostgres())
	assert.Equal(t, "gpt-4o-mini", cfg.OracleModel)
	assert.Equal(t, 10*time.Second, cfg.OracleTimeout)
	assert.Equal(t, 15*time.Minute, cfg.OracleCacheTTL)
	assert.True(t, cfg.OracleCacheOn)
	assert.InDelta(t, 0.6, cfg.ConfidenceFloor, 0.001)
	assert.NotEmpty(t, cfg.SQLitePath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/flowspace")
	t.Setenv("ORACLE_TIMEOUT", "30s")
	t.Setenv("ORACLE_CACHE_ENABLED", "false")
	t.Setenv("ORACLE_CONFIDENCE_FLOOR", "0.8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.HasPostgres())
	assert.Equal(t, 30*time.Second, cfg.OracleTimeout)
	assert.False(t, cfg.OracleCacheOn)
	assert.InDelta(t, 0.8, cfg.ConfidenceFloor, 0.001)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ORACLE_TIMEOUT", "not-a-duration")
	t.Setenv("ORACLE_CACHE_ENABLED", "maybe")
	t.Setenv("ORACLE_CONFIDENCE_FLOOR", "very high")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.OracleTimeout)
	assert.True(t, cfg.OracleCacheOn)
	assert.InDelta(t, 0.6, cfg.ConfidenceFloor, 0.001)
}
