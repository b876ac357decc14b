package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ADMIN_PASSCODE", "passcode")
	t.Setenv("DB_PASSWORD", "pw")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "12h", cfg.JWT.AccessExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.Batch.StaleAfter)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/payroll?sslmode=disable", cfg.DatabaseURL())
}

func TestLoadSQLite(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/payroll.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/payroll.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		msg  string
	}{
		{"missing passcode", "ADMIN_PASSCODE", "", "ADMIN_PASSCODE is required"},
		{"missing secret", "JWT_SECRET_KEY", "", "JWT_SECRET_KEY is required"},
		{"missing db password", "DB_PASSWORD", "", "DB_PASSWORD is required"},
		{"bad driver", "DB_DRIVER", "mysql", "DB_DRIVER must be"},
		{"bad port", "APP_PORT", "eighty", "invalid APP_PORT"},
		{"bad stale duration", "BATCH_STALE_AFTER", "a week", "invalid BATCH_STALE_AFTER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
