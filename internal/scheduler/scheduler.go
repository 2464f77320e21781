package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/cashflow-go/internal/notify"
	"github.com/eshaffer321/cashflow-go/internal/types"
	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
)

// Projections produces the projection the alert job inspects
type Projections interface {
	Generate(ctx context.Context, horizonDays int) ([]cashflow.Point, error)
}

// CalendarPublisher publishes projected events
type CalendarPublisher interface {
	Publish(ctx context.Context, horizonDays int) (int, error)
}

// AlertLog remembers which alerts were already delivered
type AlertLog interface {
	AlertSent(ctx context.Context, key string) (bool, error)
	MarkAlertSent(ctx context.Context, key string) (bool, error)
}

// Options configures the jobs. An empty spec disables the job.
type Options struct {
	AlertSpec    string
	SyncSpec     string
	CalendarSpec string
	Location     *time.Location
	HorizonDays  int
	Threshold    float64
	// JobTimeout bounds a single job run
	JobTimeout time.Duration
	Logger     types.Logger
}

// Deps are the collaborators the jobs call. Nil collaborators disable their job.
type Deps struct {
	Projections Projections
	// Reload refreshes the plan from the remote copy or the local store. It
	// runs before every job so edits made elsewhere are projected, and is
	// the sync job itself.
	Reload   func(ctx context.Context) error
	Calendar CalendarPublisher
	Notifier notify.Notifier
	AlertLog AlertLog
}

// Scheduler runs the periodic re-projection jobs
type Scheduler struct {
	cron *cron.Cron
	opts Options
	deps Deps
}

// New creates a scheduler; call Start to register and run the jobs
func New(opts Options, deps Deps) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = cashflow.DefaultHorizon
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 2 * time.Minute
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(opts.Location)),
		opts: opts,
		deps: deps,
	}
}

// Start registers the configured jobs and starts the cron loop
func (s *Scheduler) Start() error {
	jobs := []struct {
		name    string
		spec    string
		enabled bool
		run     func(context.Context) error
	}{
		{"alert", s.opts.AlertSpec, s.deps.Projections != nil && s.deps.Notifier != nil, func(ctx context.Context) error {
			_, err := s.RunAlert(ctx)
			return err
		}},
		{"sync", s.opts.SyncSpec, s.deps.Reload != nil, s.RunSync},
		{"calendar", s.opts.CalendarSpec, s.deps.Calendar != nil, s.RunCalendar},
	}

	for _, job := range jobs {
		if job.spec == "" || !job.enabled {
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.run(job.name, job.run) }); err != nil {
			return errors.Wrapf(err, "add %s job", job.name)
		}
		s.logInfo("Scheduled job", "job", job.name, "spec", job.spec)
	}

	s.cron.Start()
	s.logInfo("Scheduler started", "timezone", s.opts.Location.String(), "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logInfo("Scheduler stopped")
}

func (s *Scheduler) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		if s.opts.Logger != nil {
			s.opts.Logger.Error("Job failed", "job", name, "error", err)
		}
		return
	}
	if s.opts.Logger != nil {
		s.opts.Logger.Debug("Job finished", "job", name, "duration", time.Since(start))
	}
}

func (s *Scheduler) reload(ctx context.Context) error {
	if s.deps.Reload == nil {
		return nil
	}
	return errors.Wrap(s.deps.Reload(ctx), "reload plan")
}

// RunAlert projects the plan and notifies the first day whose balance drops
// below the threshold. Each day is alerted once when an AlertLog is set; a
// failed delivery is retried on the next run.
func (s *Scheduler) RunAlert(ctx context.Context) (bool, error) {
	if err := s.reload(ctx); err != nil {
		return false, err
	}

	points, err := s.deps.Projections.Generate(ctx, s.opts.HorizonDays)
	if err != nil {
		return false, errors.Wrap(err, "project")
	}

	point, found := cashflow.FirstBelow(points, s.opts.Threshold)
	if !found {
		return false, nil
	}

	key := fmt.Sprintf("low-balance:%s", point.Date.Key())
	if s.deps.AlertLog != nil {
		sent, err := s.deps.AlertLog.AlertSent(ctx, key)
		if err != nil {
			return false, err
		}
		if sent {
			return false, nil
		}
	}

	if err := s.deps.Notifier.Notify(ctx, AlertMessage(point, s.opts.Threshold)); err != nil {
		return false, errors.Wrap(err, "notify")
	}

	// Record only delivered alerts
	if s.deps.AlertLog != nil {
		if _, err := s.deps.AlertLog.MarkAlertSent(ctx, key); err != nil {
			return true, errors.Wrap(err, "record alert")
		}
	}
	return true, nil
}

// AlertMessage describes a low-balance day
func AlertMessage(point *cashflow.Point, threshold float64) string {
	balance := decimal.NewFromFloat(point.Balance).StringFixed(2)
	limit := decimal.NewFromFloat(threshold).StringFixed(2)
	msg := fmt.Sprintf("Balance projected to reach %s on %s (%s), below %s.",
		balance, point.Date.Key(), point.Date.Weekday(), limit)
	if len(point.Events) > 0 {
		msg += fmt.Sprintf(" %d payment(s) due that day.", len(point.Events))
	}
	return msg
}

// RunSync pulls the latest plan into the local cache. It never pushes; edits
// push themselves.
func (s *Scheduler) RunSync(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.logInfo("Plan reloaded")
	return nil
}

// RunCalendar publishes the projected events
func (s *Scheduler) RunCalendar(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		return err
	}

	n, err := s.deps.Calendar.Publish(ctx, s.opts.HorizonDays)
	if err != nil {
		return errors.Wrap(err, "publish calendar")
	}
	s.logInfo("Calendar published", "events", n)
	return nil
}

func (s *Scheduler) logInfo(msg string, keysAndValues ...interface{}) {
	if s.opts.Logger != nil {
		s.opts.Logger.Info(msg, keysAndValues...)
	}
}
