package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Session.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 900*time.Millisecond, cfg.Booking.SubmitDelay)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
session:
  driver: REDIS
  ttl: 10m
booking:
  submit_delay: 0s
`)
	t.Setenv("GREENWELL_SERVER_PORT", "9100")
	t.Setenv("GREENWELL_LOG_LEVEL", "debug")
	t.Setenv("GREENWELL_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DriverRedis, cfg.Session.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Duration(0), cfg.Booking.SubmitDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: 0\n"},
		{"unknown driver", "session:\n  driver: sqlite\n"},
		{"zero ttl", "session:\n  ttl: 0s\n"},
		{"negative delay", "booking:\n  submit_delay: -1s\n"},
		{"bad rate limit", "rate_limit:\n  enabled: true\n  burst: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
