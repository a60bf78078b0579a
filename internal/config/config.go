package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	Validate() error
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetMetricsAddr() string
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
}

type StorageConfig interface {
	GetSessionStore() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type mainConfig struct {
	EnvVars
	Client
	Storage
}

// New loads an optional .env file and returns a Config backed by the process environment.
func New() Config {
	_ = godotenv.Load()
	return NewFromViper(viper.New())
}

// NewFromViper builds a Config on top of an existing viper instance. Defaults are
// registered and environment lookups are enabled on v.
func NewFromViper(v *viper.Viper) Config {
	setDefaults(v)
	v.AutomaticEnv()
	return mainConfig{
		EnvVars: EnvVars{v: v},
		Client:  Client{v: v},
		Storage: Storage{v: v},
	}
}

type resolved struct {
	APIBaseURL     string        `validate:"required,http_url"`
	RequestTimeout time.Duration `validate:"gt=0"`
	RefreshTimeout time.Duration `validate:"gt=0"`
	SessionStore   string        `validate:"oneof=file redis memory"`
	SessionFile    string        `validate:"required_if=SessionStore file"`
	RedisAddr      string        `validate:"required_if=SessionStore redis"`
	RedisDB        int           `validate:"gte=0"`
	LogLevel       string        `validate:"oneof=trace debug info warn error"`
}

var validate = validator.New()

// Validate checks the resolved configuration values.
func (c mainConfig) Validate() error {
	r := resolved{
		APIBaseURL:     c.GetAPIBaseURL(),
		RequestTimeout: c.GetRequestTimeout(),
		RefreshTimeout: c.GetRefreshTimeout(),
		SessionStore:   c.GetSessionStore(),
		SessionFile:    c.GetSessionFile(),
		RedisAddr:      c.GetRedisAddr(),
		RedisDB:        c.GetRedisDB(),
		LogLevel:       c.GetLogLevel(),
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	return nil
}
