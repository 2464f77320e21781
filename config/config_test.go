package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CASHFLOW_DB_PATH", "CASHFLOW_HORIZON", "CASHFLOW_TIMEZONE", "TELEGRAM_CHAT_ID",
		"LOW_BALANCE_THRESHOLD", "ALERT_SCHEDULE", "SYNC_SCHEDULE", "TELEGRAM_BOT_TOKEN", "CALDAV_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/cashflow.db", cfg.DatabasePath)
	assert.Equal(t, 60, cfg.HorizonDays)
	assert.Equal(t, "UTC", cfg.Timezone.String())
	assert.Equal(t, "0 8 * * *", cfg.AlertSchedule)
	assert.Equal(t, "*/30 * * * *", cfg.SyncSchedule)
	assert.Zero(t, cfg.LowBalanceThreshold)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.CalDAVEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CASHFLOW_DB_PATH", "/tmp/x.db")
	t.Setenv("CASHFLOW_HORIZON", "90")
	t.Setenv("CASHFLOW_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("LOW_BALANCE_THRESHOLD", "250.5")
	t.Setenv("CALDAV_URL", "https://dav.example.com")
	t.Setenv("CALDAV_CALENDAR", "/cal/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, 90, cfg.HorizonDays)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone.String())
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.Equal(t, 250.5, cfg.LowBalanceThreshold)
	assert.True(t, cfg.TelegramEnabled())
	assert.True(t, cfg.CalDAVEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"horizon not a number", "CASHFLOW_HORIZON", "sixty"},
		{"negative horizon", "CASHFLOW_HORIZON", "-1"},
		{"unknown timezone", "CASHFLOW_TIMEZONE", "Mars/Olympus"},
		{"chat id", "TELEGRAM_CHAT_ID", "abc"},
		{"threshold", "LOW_BALANCE_THRESHOLD", "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
