package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/recruit-console/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	c := config.NewFromViper(viper.New())

	require.Equal(t, config.DefaultAPIBaseURL, c.GetAPIBaseURL())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, 30*time.Second, c.GetRequestTimeout())
	require.Equal(t, 10*time.Second, c.GetRefreshTimeout())
	require.Equal(t, "file", c.GetSessionStore())
	require.NotEmpty(t, c.GetSessionFile())
	require.Empty(t, c.GetMetricsAddr())
	require.NoError(t, c.Validate())
}

func TestConfig_Environment(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("REFRESH_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ENV", "prod")

	c := config.NewFromViper(viper.New())

	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, 3*time.Second, c.GetRefreshTimeout())
	require.Equal(t, "redis", c.GetSessionStore())
	require.Equal(t, 2, c.GetRedisDB())
	require.Equal(t, "PROD", c.GetEnv())
	require.NoError(t, c.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("base url must be http", func(t *testing.T) {
		t.Setenv("API_URL", "ftp://example.com")
		require.Error(t, config.NewFromViper(viper.New()).Validate())
	})

	t.Run("unknown session store", func(t *testing.T) {
		t.Setenv("SESSION_STORE", "localstorage")
		require.Error(t, config.NewFromViper(viper.New()).Validate())
	})

	t.Run("zero refresh timeout", func(t *testing.T) {
		t.Setenv("REFRESH_TIMEOUT", "0s")
		require.Error(t, config.NewFromViper(viper.New()).Validate())
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		require.Error(t, config.NewFromViper(viper.New()).Validate())
	})
}
