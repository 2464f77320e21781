package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/eshaffer321/cashflow-go/internal/notify"
	"github.com/eshaffer321/cashflow-go/internal/scheduler"
	"github.com/eshaffer321/cashflow-go/internal/storage"
	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
)

// retryHooks reports repeated remote attempts so a flaky sync proxy shows up
// in the daemon log
func retryHooks(logger cashflow.Logger) *cashflow.Hooks {
	return &cashflow.Hooks{
		OnRetry: func(ctx context.Context, req *http.Request, attempt int) {
			logger.Warn("Retrying remote call", "method", req.Method, "path", req.URL.Path, "attempt", attempt)
		},
	}
}

// daemon runs the scheduled jobs until SIGINT or SIGTERM
func (a *app) daemon(ctx context.Context) error {
	var notifier notify.Notifier = &notify.Log{Logger: a.logger}
	if a.cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(notify.TelegramOptions{
			Token:  a.cfg.TelegramToken,
			ChatID: a.cfg.TelegramChatID,
		})
		if err != nil {
			return errors.Wrap(err, "telegram")
		}
		notifier = tg
	}

	// alerts are deduplicated in the same database the state lives in
	db, err := storage.New(a.cfg.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "open alert log")
	}
	defer db.Close()

	deps := scheduler.Deps{
		Projections: a.client.Projections,
		Reload:      a.client.Load,
		Notifier:    notifier,
		AlertLog:    db,
	}
	calendarSpec := ""
	if a.cfg.CalDAVEnabled() {
		deps.Calendar = a.client.Calendar
		calendarSpec = a.cfg.CalendarSchedule
	}
	// the sync job pulls the remote copy
	syncSpec := ""
	if a.cfg.SyncURL != "" && a.cfg.UserID != "" {
		syncSpec = a.cfg.SyncSchedule
	}

	s := scheduler.New(scheduler.Options{
		AlertSpec:    a.cfg.AlertSchedule,
		SyncSpec:     syncSpec,
		CalendarSpec: calendarSpec,
		Location:     a.cfg.Timezone,
		HorizonDays:  a.cfg.HorizonDays,
		Threshold:    a.cfg.LowBalanceThreshold,
		Logger:       a.logger,
	}, deps)

	if err := s.Start(); err != nil {
		return err
	}

	// run the alert once at startup so a fresh daemon reports immediately
	if sent, err := s.RunAlert(ctx); err != nil {
		log.Printf("Initial alert check failed: %v", err)
	} else if sent {
		log.Println("Initial alert sent")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	s.Stop()
	return nil
}
