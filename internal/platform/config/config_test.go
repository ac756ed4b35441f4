package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"handover/internal/platform/config"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.HandoverTTL)
	assert.Equal(t, "consumer-web", cfg.DefaultClientID)
	assert.Equal(t, "handover", cfg.Issuer)
	assert.Equal(t, "handover-session", cfg.SessionCookieName)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.SessionSecure)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Database.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HANDOVER_ADDR", ":9090")
	t.Setenv("HANDOVER_BASE_URL", "https://handover.example.com")
	t.Setenv("HANDOVER_TTL", "2m")
	t.Setenv("HANDOVER_DEFAULT_CLIENT_ID", "sentence-plan")
	t.Setenv("HANDOVER_SESSION_INSECURE", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := config.FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://handover.example.com", cfg.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.HandoverTTL)
	assert.Equal(t, "sentence-plan", cfg.DefaultClientID)
	assert.False(t, cfg.SessionSecure)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvParsesClientSeeds(t *testing.T) {
	t.Setenv("HANDOVER_CLIENTS", "sentence-plan=https://plans.example.com, consumer-web=https://app.example.com,malformed")

	cfg := config.FromEnv()

	assert.Equal(t, []config.ClientSeed{
		{ClientID: "sentence-plan", RedirectURI: "https://plans.example.com"},
		{ClientID: "consumer-web", RedirectURI: "https://app.example.com"},
	}, cfg.Clients)
}

func TestFromEnvIgnoresBadDurations(t *testing.T) {
	t.Setenv("HANDOVER_TTL", "not-a-duration")
	t.Setenv("HANDOVER_SWEEP_INTERVAL", "-10s")

	cfg := config.FromEnv()

	assert.Equal(t, 5*time.Minute, cfg.HandoverTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
}
