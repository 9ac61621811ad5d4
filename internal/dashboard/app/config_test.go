package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com", cfg.APIURL)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "dashboard.db", cfg.DatabaseFile)
	require.Equal(t, 30*time.Second, cfg.APIRequestTimeout)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.True(t, cfg.CookieSecure)
	require.True(t, cfg.BreakerEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("PORT", "9000")
	t.Setenv("API_REQUEST_TIMEOUT", "5s")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 5*time.Second, cfg.APIRequestTimeout)
	require.False(t, cfg.CookieSecure)
}

func TestLoadConfigRequiresAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("PORT", "70000")

	_, err := LoadConfig()
	require.Error(t, err)
}
