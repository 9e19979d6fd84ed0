package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.FMCSATimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 50, cfg.RateLimitRPS)
	assert.Equal(t, 100, cfg.RateLimitBurst)

	// With no secrets set, every collaborator picks its fallback.
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.UseRedis())
	assert.False(t, cfg.UseLiveVerification())
	assert.False(t, cfg.UseSMTP())
	assert.False(t, cfg.UseKafka())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://cb:cb@localhost:5432/carrierboard")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("FMCSA_API_KEY", "real-key")
	t.Setenv("FMCSA_TIMEOUT", "3s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://carrierboard.example,https://admin.carrierboard.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 3*time.Second, cfg.FMCSATimeout)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)

	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.UseRedis())
	assert.True(t, cfg.UseLiveVerification())
	assert.True(t, cfg.UseSMTP())
	assert.True(t, cfg.UseKafka())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}
