package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEDGER_STORE", "postgres")
	t.Setenv("LEDGER_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("LEDGER_MAX_PAGE_SIZE", "100")
	t.Setenv("IDEMPOTENCY_TTL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Ledger.Store)
	assert.Equal(t, 10, cfg.Ledger.DefaultPageSize)
	assert.Equal(t, 100, cfg.Ledger.MaxPageSize)
	assert.Equal(t, "admin@example.com", cfg.Ledger.BootstrapEmail)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_URL ni REDIS_ADDRESS la idempotencia queda apagada")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LEDGER_STORE", "MEMORY")
	t.Setenv("LEDGER_DEFAULT_PAGE_SIZE", "25")
	t.Setenv("LEDGER_MAX_PAGE_SIZE", "50")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL", "30m")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Ledger.Store)
	assert.Equal(t, 25, cfg.Ledger.DefaultPageSize)
	assert.Equal(t, 50, cfg.Ledger.MaxPageSize)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("LEDGER_STORE", "mongo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_STORE")
}

func TestLoad_RejectsDefaultPageAboveMax(t *testing.T) {
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_DEFAULT_PAGE_SIZE", "200")
	t.Setenv("LEDGER_MAX_PAGE_SIZE", "100")

	_, err := config.Load()
	require.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{
		Host:     "db",
		Port:     5432,
		User:     "ledger",
		Password: "p@ss:word",
		DBName:   "ledger",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://ledger:p%40ss%3Aword@db:5432/ledger?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", db.ConnectionString())
}
