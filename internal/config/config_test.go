package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "APP_VERSION", "COST_POLICY", "MAX_ROUTE_CENTERS", "CACHE_BACKEND",
	"CACHE_TTL", "CACHE_ENTRIES", "REDIS_URL", "DATABASE_URL", "SQLITE_PATH",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "LOG_FORMAT", "TRACING_EXPORTER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "per_center", cfg.CostPolicy)
	assert.Equal(t, 8, cfg.MaxRouteCenters)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "none", cfg.TracingExporter)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("COST_POLICY", "Cumulative")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "cumulative", cfg.CostPolicy)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad policy", map[string]string{"COST_POLICY": "average"}},
		{"bad backend", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"redis without url", map[string]string{"CACHE_BACKEND": "redis"}},
		{"postgres without url", map[string]string{"CACHE_BACKEND": "postgres"}},
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"bad duration", map[string]string{"CACHE_TTL": "ten minutes"}},
		{"bad integer", map[string]string{"MAX_ROUTE_CENTERS": "many"}},
		{"centers above limit", map[string]string{"MAX_ROUTE_CENTERS": "11"}},
		{"bad exporter", map[string]string{"TRACING_EXPORTER": "jaeger"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\n"), 0o600))

	assert.True(t, LoadDotEnv(path))
	assert.False(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	os.Unsetenv("PORT")
}
