package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var keys = []string{
	"JOBMATCH_API_URL",
	"JOBMATCH_TIMEOUT",
	"JOBMATCH_POLL_INTERVAL",
	"JOBMATCH_TOKEN_FILE",
	"JOBMATCH_CACHE_IDENTITY",
	"LOG_LEVEL",
	"PORT",
	"JWT_SECRET",
	"JWT_TTL",
	"DEVSERVER_SEED",
}

func unsetAll(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetAll(t)

	cfg := LoadConfig()
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Contains(t, cfg.TokenFile, ".jobmatch")
	assert.False(t, cfg.CacheIdentity)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	unsetAll(t)
	t.Setenv("JOBMATCH_API_URL", "https://api.example.com/api")
	t.Setenv("JOBMATCH_TIMEOUT", "2s")
	t.Setenv("JOBMATCH_POLL_INTERVAL", "500ms")
	t.Setenv("JOBMATCH_TOKEN_FILE", "/tmp/jm-token")
	t.Setenv("JOBMATCH_CACHE_IDENTITY", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	assert.Equal(t, "https://api.example.com/api", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "/tmp/jm-token", cfg.TokenFile)
	assert.True(t, cfg.CacheIdentity)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigIgnoresBadValues(t *testing.T) {
	unsetAll(t)
	t.Setenv("JOBMATCH_TIMEOUT", "soon")
	t.Setenv("JOBMATCH_POLL_INTERVAL", "-1s")
	t.Setenv("JOBMATCH_CACHE_IDENTITY", "maybe")

	cfg := LoadConfig()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.False(t, cfg.CacheIdentity)
}

func TestSetupLoggerLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, SetupLogger(&Config{LogLevel: "warn"}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, SetupLogger(&Config{LogLevel: "loud"}).GetLevel())
}

func TestLoadServerConfig(t *testing.T) {
	unsetAll(t)
	cfg := LoadServerConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.Seed)

	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DEVSERVER_SEED", "false")
	cfg = LoadServerConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.Seed)
}
