package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prlifecycle/internal/app/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prs")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.StorePostgres, cfg.EventStore)
	assert.Equal(t, 4, cfg.EventBusWorkers)
	assert.Equal(t, 3, cfg.CommandRetries)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadMemoryStoreWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EVENT_STORE", "memory")
	t.Setenv("COMMAND_RETRIES", "7")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.EventStore)
	assert.Equal(t, 7, cfg.CommandRetries)
}

func TestLoadRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EVENT_STORE", "postgres")

	_, err := config.Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := config.Config{EventStore: config.StoreMemory, EventBusWorkers: 1}
	require.NoError(t, base.Validate())

	bad := base
	bad.EventStore = "sqlite"
	assert.Error(t, bad.Validate())

	bad = base
	bad.EventBusWorkers = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.CommandRetries = -1
	assert.Error(t, bad.Validate())
}
