package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_TTL", "IMAGERY_ENDPOINT", "IMAGERY_TIMEOUT", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DevSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ImageryTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("IMAGERY_TIMEOUT", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	cfg := Load()
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 3*time.Second, cfg.ImageryTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestDurationFallsBack(t *testing.T) {
	assert.Equal(t, time.Minute, duration("soon", time.Minute))
	assert.Equal(t, time.Minute, duration("-5s", time.Minute))
}

func TestLogValueHidesSecret(t *testing.T) {
	cfg := AppConfig{JWTSecret: "s3cr3t", ImageryAPIKey: "k3y"}
	out := cfg.LogValue().String()
	assert.NotContains(t, out, "s3cr3t")
	assert.NotContains(t, out, "k3y")
}
