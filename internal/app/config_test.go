package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	iauth "github.com/talentrail/talentrail/internal/auth"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "talentrail-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 250, cfg.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.RateLimit.Window)

	require.Equal(t, 120, cfg.Maintenance.AuditRetentionDays)
	require.Equal(t, "@weekly", cfg.Maintenance.AuditSchedule)
	require.Equal(t, "@daily", cfg.Maintenance.CvLinkSchedule)

	require.Equal(t, "https://hire.example.com", cfg.CvLinks.BaseURL)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/talentrail.sqlite", cfg.Database.Path)
	require.Equal(t, 100, cfg.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.RateLimit.Window)
	require.Equal(t, 90, cfg.Maintenance.AuditRetentionDays)
}

func TestJWTServiceConfigFallback(t *testing.T) {
	var cfg AuthConfig
	cfg.JWT.Secret = "secret"

	jwtCfg := cfg.JWTServiceConfig()
	require.Equal(t, iauth.JWTConfig{
		Secret:         "secret",
		AccessTokenTTL: iauth.DefaultAccessTokenTTL,
	}, jwtCfg)
}
