package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("NSQ_ADDR", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")

	cfg := Load("testdata/missing.env")

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Rates.StaleAfter)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Minute, cfg.Jobs.ExpirySweepInterval)
	assert.Equal(t, "loadboard.events", cfg.NSQ.Topic)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.NSQ.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("USE_MEMORY_STORE", "true")
	t.Setenv("RATES_STALE_AFTER", "6h")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DB_PASS", "secret")

	cfg := Load("testdata/missing.env")

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.IsProduction())
	assert.True(t, cfg.Store.UseMemory)
	assert.Equal(t, 6*time.Hour, cfg.Rates.StaleAfter)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "secret", cfg.Database.Password)
}
