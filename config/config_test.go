package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINTRACK_CONFIG", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN, "_busy_timeout=5000")
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "VND", cfg.Ledger.Currency)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Ledger.Location().String())
	assert.Equal(t, 256, cfg.WS.SendBuffer)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FINTRACK_CONFIG", "")
	t.Setenv("FINTRACK_SERVER_PORT", "9090")
	t.Setenv("FINTRACK_DATABASE_DRIVER", "mysql")
	t.Setenv("FINTRACK_LEDGER_CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "USD", cfg.Ledger.Currency)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  timezone: UTC\nratelimit:\n  requests: 5\n"), 0o644))
	t.Setenv("FINTRACK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Ledger.Location())
	assert.Equal(t, 5, cfg.RateLimit.Requests)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("FINTRACK_CONFIG", "")
	t.Setenv("FINTRACK_LEDGER_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
