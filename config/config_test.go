package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAY_APP_ID", "app-1")
	t.Setenv("PAY_APP_SECRET", "secret-1")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.paychan.cn", cfg.APIBaseURL)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 4, cfg.PoolSize)
	require.Equal(t, 360, cfg.QRSize)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAY_APP_ID", "app-1")
	t.Setenv("PAY_APP_SECRET", "secret-1")
	t.Setenv("PAY_API_BASE_URL", "https://staging.example.com")
	t.Setenv("PAY_HTTP_TIMEOUT", "3s")
	t.Setenv("PAY_POOL_SIZE", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", cfg.APIBaseURL)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 8, cfg.PoolSize)
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("PAY_APP_ID", "")
	t.Setenv("PAY_APP_SECRET", "")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("PAY_APP_ID", "app-1")
	t.Setenv("PAY_APP_SECRET", "secret-1")
	t.Setenv("PAY_POOL_SIZE", "minus two")
	t.Setenv("PAY_BREAKER_FAILURE_RATIO", "7.5")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 4, cfg.PoolSize)
	require.Equal(t, 0.5, cfg.BreakerFailureRatio)
}
