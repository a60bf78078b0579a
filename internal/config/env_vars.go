package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appNameVar        = "APP_NAME"
	envVar            = "ENV"
	logLevelVar       = "LOG_LEVEL"
	metricsAddrVar    = "METRICS_ADDR"
	apiURLVar         = "API_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	refreshTimeoutVar = "REFRESH_TIMEOUT"
	sessionStoreVar   = "SESSION_STORE"
	sessionFileVar    = "SESSION_FILE"
	redisAddrVar      = "REDIS_ADDR"
	redisPasswordVar  = "REDIS_PASSWORD"
	redisDBVar        = "REDIS_DB"
	redisPrefixVar    = "REDIS_KEY_PREFIX"
)

// DefaultAPIBaseURL is the local development backend.
const DefaultAPIBaseURL = "http://localhost:8000"

func setDefaults(v *viper.Viper) {
	v.SetDefault(appNameVar, "Recruit Console")
	v.SetDefault(envVar, "DEV")
	v.SetDefault(logLevelVar, "info")
	v.SetDefault(apiURLVar, DefaultAPIBaseURL)
	v.SetDefault(requestTimeoutVar, 30*time.Second)
	v.SetDefault(refreshTimeoutVar, 10*time.Second)
	v.SetDefault(sessionStoreVar, "file")
	v.SetDefault(sessionFileVar, defaultSessionFile())
	v.SetDefault(redisAddrVar, "localhost:6379")
	v.SetDefault(redisDBVar, 0)
	v.SetDefault(redisPrefixVar, "recruit-console:")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".recruit-console", "session.json")
}

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameVar)
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.v.GetString(envVar))
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.v.GetString(logLevelVar))
}

// GetMetricsAddr returns the listen address for the metrics endpoint, empty when disabled.
func (e EnvVars) GetMetricsAddr() string {
	return e.v.GetString(metricsAddrVar)
}

type Client struct {
	v *viper.Viper
}

var _ ClientConfig = Client{}

// GetAPIBaseURL returns the backend base URL every request path is resolved against.
func (c Client) GetAPIBaseURL() string {
	return strings.TrimRight(c.v.GetString(apiURLVar), "/")
}

func (c Client) GetRequestTimeout() time.Duration {
	return c.v.GetDuration(requestTimeoutVar)
}

func (c Client) GetRefreshTimeout() time.Duration {
	return c.v.GetDuration(refreshTimeoutVar)
}

type Storage struct {
	v *viper.Viper
}

var _ StorageConfig = Storage{}

// GetSessionStore returns the durable session backend: file, redis or memory.
func (s Storage) GetSessionStore() string {
	return strings.ToLower(s.v.GetString(sessionStoreVar))
}

func (s Storage) GetSessionFile() string {
	return s.v.GetString(sessionFileVar)
}

func (s Storage) GetRedisAddr() string {
	return s.v.GetString(redisAddrVar)
}

func (s Storage) GetRedisPassword() string {
	return s.v.GetString(redisPasswordVar)
}

func (s Storage) GetRedisDB() int {
	return s.v.GetInt(redisDBVar)
}

func (s Storage) GetRedisKeyPrefix() string {
	return s.v.GetString(redisPrefixVar)
}
