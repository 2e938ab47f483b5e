package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.App.StorageDriver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, int64(5), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 5, cfg.Billing.CounterMaxRetries)
	assert.Equal(t, 20*time.Millisecond, cfg.Billing.CounterBackoff)
	assert.Equal(t, "America/Bogota", cfg.Reports.Timezone)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Images.Enabled())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "happy")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "productos")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.App.StorageDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, int64(3), cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.Mail.Enabled())
	assert.True(t, cfg.Images.Enabled())
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
