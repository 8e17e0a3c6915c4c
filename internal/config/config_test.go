package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "vaccination", cfg.MongoDatabase)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 20, cfg.RateLimitRequests)
	assert.Equal(t, 60, cfg.RateLimitWindow)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DATABASE", "vax")
	t.Setenv("JWT_SECRET", "hush")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("SLOT_RANGE_START", "2025-01-01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "vax", cfg.MongoDatabase)
	assert.Equal(t, "hush", cfg.JWTSecret)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, "2025-01-01", cfg.SlotRangeStart)
}
