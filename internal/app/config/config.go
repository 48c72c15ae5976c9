package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	// EventStore selects the stream backend: postgres or memory.
	EventStore string `envconfig:"EVENT_STORE" default:"postgres"`

	EventBusWorkers int `envconfig:"EVENT_BUS_WORKERS" default:"4"`
	CommandRetries  int `envconfig:"COMMAND_RETRIES" default:"3"`

	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"5s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.EventStore {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("EVENT_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.EventStore)
	}
	if c.EventBusWorkers < 1 {
		return errors.New("EVENT_BUS_WORKERS must be positive")
	}
	if c.CommandRetries < 0 {
		return errors.New("COMMAND_RETRIES must not be negative")
	}
	return nil
}
