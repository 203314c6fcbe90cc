package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "news-portal", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	require.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL())
	require.Equal(t, time.Hour, cfg.Auth.VerificationTokenTTL())
	require.Equal(t, 12, cfg.Auth.BcryptCost)
	require.NotEqual(t, cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret)

	require.Equal(t, 256, cfg.Realtime.SendBufferSize)
	require.Equal(t, 54, cfg.Realtime.PingPeriodSeconds)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_HOURS", "1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.App.Port)
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, "debug", cfg.Logger.Level)
	require.False(t, cfg.Postgres.RunMigrations)
}

func TestLoad_EmptySecretsRejected(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_SECRET", "   ")

	_, err := Load()
	require.Error(t, err)
}

func TestTTLFallbacks(t *testing.T) {
	auth := AuthConfig{}
	require.Greater(t, auth.AccessTokenTTL(), time.Duration(0))
	require.Greater(t, auth.RefreshTokenTTL(), time.Duration(0))
	require.Greater(t, auth.VerificationTokenTTL(), time.Duration(0))
}
