package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	DatabasePath string
	HorizonDays  int
	Timezone     *time.Location
	UserID       string
	SyncURL      string
	InsightsURL  string
	SentryDSN    string

	TelegramToken  string
	TelegramChatID int64

	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVCalendar string

	AlertSchedule       string
	SyncSchedule        string
	CalendarSchedule    string
	LowBalanceThreshold float64
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:     getenv("CASHFLOW_DB_PATH", "./data/cashflow.db"),
		UserID:           os.Getenv("CASHFLOW_USER_ID"),
		SyncURL:          os.Getenv("CASHFLOW_SYNC_URL"),
		InsightsURL:      os.Getenv("CASHFLOW_INSIGHTS_URL"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		CalDAVURL:        os.Getenv("CALDAV_URL"),
		CalDAVUsername:   os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:   os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar:   os.Getenv("CALDAV_CALENDAR"),
		AlertSchedule:    getenv("ALERT_SCHEDULE", "0 8 * * *"),
		SyncSchedule:     getenv("SYNC_SCHEDULE", "*/30 * * * *"),
		CalendarSchedule: getenv("CALENDAR_SCHEDULE", "0 6 * * *"),
	}

	horizon, err := strconv.Atoi(getenv("CASHFLOW_HORIZON", "60"))
	if err != nil || horizon < 0 {
		return nil, errors.Errorf("CASHFLOW_HORIZON must be a non-negative number")
	}
	cfg.HorizonDays = horizon

	tz, err := time.LoadLocation(getenv("CASHFLOW_TIMEZONE", "UTC"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid CASHFLOW_TIMEZONE")
	}
	cfg.Timezone = tz

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Errorf("TELEGRAM_CHAT_ID must be a number")
		}
	}

	if v := os.Getenv("LOW_BALANCE_THRESHOLD"); v != "" {
		cfg.LowBalanceThreshold, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Errorf("LOW_BALANCE_THRESHOLD must be a number")
		}
	}

	return cfg, nil
}

// TelegramEnabled reports whether alerts go to Telegram
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// CalDAVEnabled reports whether calendar publishing is configured
func (c *Config) CalDAVEnabled() bool {
	return c.CalDAVURL != "" && c.CalDAVCalendar != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
