package config

import (
	"time"

	redisclient "github.com/marcusziade/compiledthoughts/internal/infra/redis"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Presence PresenceConfig     `yaml:"presence"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// PresenceConfig holds settings for the presence poller.
type PresenceConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	SteadyInterval time.Duration `yaml:"steady_interval"`
	MaxRetries     int           `yaml:"max_retries"`
}
