package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SLA_HOURS", "")
	t.Setenv("LOCALE", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24, cfg.SLAHours)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxAttachmentSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SLA_HOURS", "48")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_PUBLIC_ENDPOINT", "")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.SLA())
	assert.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	assert.True(t, cfg.MinIOUseSSL)
	assert.Equal(t, "minio:9000", cfg.MinIOPublicEndpoint)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SLA_HOURS", "soon")
	t.Setenv("JWT_REFRESH_EXPIRY", "forever")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 24, cfg.SLAHours)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshExpiry)
	assert.False(t, cfg.MinIOUseSSL)
}

func TestSLA_NonPositiveFallsBack(t *testing.T) {
	cfg := &Config{SLAHours: 0}
	assert.Equal(t, 24*time.Hour, cfg.SLA())
}

func TestBodyLimit(t *testing.T) {
	cfg := &Config{MaxAttachmentSize: 10 * 1024 * 1024}
	assert.Equal(t, 11*1024*1024, cfg.BodyLimit())

	cfg.MaxAttachmentSize = 0
	assert.Equal(t, math.MaxInt32, cfg.BodyLimit())

	cfg.MaxAttachmentSize = math.MaxInt64
	assert.Equal(t, math.MaxInt32, cfg.BodyLimit())
}
