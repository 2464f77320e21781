package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/eshaffer321/cashflow-go/config"
	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
)

const usage = `usage: planner <command> [flags]

commands:
  project      print the day-by-day projection
  summary      print dashboard figures
  runway       print baseline and stressed runway
  debts        print the debt plan
  insights     ask the insights service to review the plan
  export-csv   write the projection as CSV
  export-ics   write the projection as iCalendar
  add          add an income, expense, debt or savings entry
  remove       remove an entry by id
  list         list entries of one kind
  balance      set the opening cash and savings balances
  goals        manage savings goals (list|add|update|deposit|withdraw|remove)
  notes        set or search day notes (set|get|search)
  publish      push projected events to CalDAV
  sync         push the state to the remote copy
  daemon       run the alert, sync and calendar jobs`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newStdLogger(os.Getenv("CASHFLOW_DEBUG") != "")

	opts := &cashflow.ClientOptions{
		DatabasePath: cfg.DatabasePath,
		SyncURL:      cfg.SyncURL,
		InsightsURL:  cfg.InsightsURL,
		UserID:       cfg.UserID,
		Logger:       logger,
		SentryDSN:    cfg.SentryDSN,
		Location:     cfg.Timezone,
		CalDAV:       calDAVOptions(cfg),
	}
	if os.Args[1] == "daemon" {
		opts.RetryConfig = cashflow.DefaultRetryConfig()
		opts.Hooks = retryHooks(logger)
	}

	client, err := cashflow.NewClient(opts)
	if err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Load(ctx); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	a := &app{client: client, cfg: cfg, logger: logger, out: os.Stdout}
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		client.Close()
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func calDAVOptions(cfg *config.Config) *cashflow.CalDAVOptions {
	if !cfg.CalDAVEnabled() {
		return nil
	}
	return &cashflow.CalDAVOptions{
		URL:      cfg.CalDAVURL,
		Username: cfg.CalDAVUsername,
		Password: cfg.CalDAVPassword,
		Calendar: cfg.CalDAVCalendar,
	}
}

// stdLogger adapts the standard logger to cashflow.Logger
type stdLogger struct {
	debug bool
}

func newStdLogger(debug bool) *stdLogger {
	return &stdLogger{debug: debug}
}

func (l *stdLogger) Debug(msg string, kv ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, kv)
	}
}

func (l *stdLogger) Info(msg string, kv ...interface{})  { l.print("INFO", msg, kv) }
func (l *stdLogger) Warn(msg string, kv ...interface{})  { l.print("WARN", msg, kv) }
func (l *stdLogger) Error(msg string, kv ...interface{}) { l.print("ERROR", msg, kv) }

func (l *stdLogger) print(level, msg string, kv []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	log.Output(3, b.String())
}
