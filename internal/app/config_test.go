package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 168*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 10*time.Minute, cfg.Auth.OTP.TTL)
	require.Equal(t, 6, cfg.Auth.OTP.Digits)
	require.Equal(t, "vitstudent.ac.in", cfg.Auth.Registration.EmailDomain)
	require.False(t, cfg.Email.SMTP.Enabled)
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	contents := []byte(`
server:
  port: 9100
auth:
  jwt:
    secret: test-secret
  otp:
    ttl: 5m
  registration:
    email_domain: example.edu
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 5*time.Minute, cfg.Auth.OTP.TTL)
	require.Equal(t, "example.edu", cfg.Auth.Registration.EmailDomain)
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Error(t, cfg.Validate())

	cfg.Auth.JWT.Secret = "something"
	require.NoError(t, cfg.Validate())
}
