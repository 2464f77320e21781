package cashflow

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/eshaffer321/cashflow-go/internal/calendar"
	"github.com/eshaffer321/cashflow-go/internal/clients/caldav"
	"github.com/eshaffer321/cashflow-go/internal/transport"
	internalTypes "github.com/eshaffer321/cashflow-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

const (
	// DefaultHorizon is the projection length used when callers pass none
	DefaultHorizon = 60

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client owns the planning state and wires the projection to its collaborators
type Client struct {
	// Service interfaces
	Entities    EntityService
	Goals       GoalService
	Notes       NoteService
	Projections ProjectionService
	Sync        SyncService
	Insights    InsightService
	Calendar    CalendarService

	// Internal fields
	mu        sync.RWMutex
	state     *State
	observers map[int]func(*State)
	nextObs   int

	projector   *Projector
	store       Store
	closers     []func() error
	syncAPI     *transport.JSONTransport
	insightsAPI *transport.JSONTransport
	publisher   Publisher
	options     *ClientOptions
}

// CalDAVOptions points calendar publishing at a CalDAV collection
type CalDAVOptions struct {
	URL      string
	Username string
	Password string
	// Calendar is the collection path events are written under
	Calendar string
}

// ClientOptions configures the client
type ClientOptions struct {
	// DatabasePath opens a SQLite store at this path when Store is nil
	DatabasePath string

	// Store overrides the local store
	Store Store

	// SyncURL is the root of the remote sync proxy
	SyncURL string

	// InsightsURL is the root of the insights service
	InsightsURL string

	// UserID keys the remote copy of the state
	UserID string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// RetryConfig configures retry behavior of the remote collaborators
	RetryConfig *internalTypes.RetryConfig

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// Logger for debug logging
	Logger Logger

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions

	// Now overrides the clock used to determine today
	Now func() time.Time

	// Location is the zone calendar dates are evaluated in
	Location *time.Location

	// Calendar overrides the date arithmetic
	Calendar calendar.Calendar

	// CalDAV enables calendar publishing
	CalDAV *CalDAVOptions

	// Publisher overrides the CalDAV publisher
	Publisher Publisher
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RetryConfig configures retries of the remote collaborators
type RetryConfig = internalTypes.RetryConfig

// Hooks observe calls to the remote collaborators
type Hooks = internalTypes.Hooks

// DefaultRetryConfig returns the retry policy used by long-running processes
func DefaultRetryConfig() *RetryConfig {
	return internalTypes.DefaultRetryConfig()
}

// NewClient creates a client holding an empty state. Call Load to restore
// the saved one.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}
		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}
		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}
		if err := sentry.Init(sentryOpts); err != nil {
			// Sentry is optional
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	c := &Client{
		state:     NewState(),
		observers: map[int]func(*State){},
		projector: &Projector{
			Now:      opts.Now,
			Location: opts.Location,
			Calendar: opts.Calendar,
			Logger:   opts.Logger,
		},
		store:     opts.Store,
		publisher: opts.Publisher,
		options:   opts,
	}

	if c.store == nil && opts.DatabasePath != "" {
		store, closeFn, err := NewSQLiteStore(opts.DatabasePath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open local store")
		}
		c.store = store
		c.closers = append(c.closers, closeFn)
	}

	if opts.SyncURL != "" {
		c.syncAPI = c.newTransport(opts.SyncURL)
	}
	if opts.InsightsURL != "" {
		c.insightsAPI = c.newTransport(opts.InsightsURL)
	}

	if c.publisher == nil && opts.CalDAV != nil && opts.CalDAV.URL != "" {
		c.publisher = caldav.NewPublisher(&caldav.Options{
			BaseURL:  opts.CalDAV.URL,
			Username: opts.CalDAV.Username,
			Password: opts.CalDAV.Password,
			Calendar: opts.CalDAV.Calendar,
			Timeout:  opts.HTTPClient.Timeout,
		})
	}

	c.initServices()

	return c, nil
}

func (c *Client) newTransport(baseURL string) *transport.JSONTransport {
	return transport.NewJSONTransport(&transport.Options{
		BaseURL:     baseURL,
		HTTPClient:  c.options.HTTPClient,
		RetryConfig: c.options.RetryConfig,
		Logger:      c.options.Logger,
		Hooks:       c.options.Hooks,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Entities = &entityService{client: c}
	c.Goals = &goalService{client: c}
	c.Notes = &noteService{client: c}
	c.Projections = &projectionService{client: c}
	c.Sync = &syncService{client: c}
	c.Insights = &insightService{client: c}
	c.Calendar = &calendarService{client: c}
}

// Projector returns the projector configured for this client
func (c *Client) Projector() *Projector {
	return c.projector
}

// State returns a snapshot of the current state
func (c *Client) State() *State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function unregisters it.
func (c *Client) Subscribe(fn func(*State)) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Load restores the state. The remote copy wins when sync is configured and
// reachable; otherwise the local store is used, and an empty state when
// neither has one.
func (c *Client) Load(ctx context.Context) error {
	state, err := c.Sync.Pull(ctx)
	switch {
	case err == nil:
		if c.store != nil {
			if err := c.store.Save(ctx, state); err != nil {
				c.logWarn("Failed to cache remote state", "error", err)
			}
		}
	case errors.Is(err, ErrNotConfigured):
	default:
		if !errors.Is(err, ErrNotFound) {
			c.logWarn("Remote state unavailable, using local copy", "error", err)
			c.captureError(ctx, "sync.pull", err)
		}
		state = nil
	}

	if state == nil && c.store != nil {
		state, err = c.store.Load(ctx)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "failed to load local state")
		}
	}

	if state == nil {
		state = NewState()
	}
	state.Normalize()

	c.mu.Lock()
	c.state = state
	snapshot := state.Clone()
	observers := c.observerList()
	c.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// Replace swaps the whole state, as an import does
func (c *Client) Replace(ctx context.Context, state *State) error {
	next := state.Clone()
	next.Normalize()
	return c.mutate(ctx, func(s *State) error {
		*s = *next
		return nil
	})
}

// mutate applies fn to a copy of the state and commits it when fn succeeds.
// The committed state is saved locally, pushed remotely and handed to the
// observers.
func (c *Client) mutate(ctx context.Context, fn func(*State) error) error {
	c.mu.Lock()
	next := c.state.Clone()
	if err := fn(next); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	snapshot := next.Clone()
	observers := c.observerList()
	c.mu.Unlock()

	var saveErr error
	if c.store != nil {
		if err := c.store.Save(ctx, snapshot); err != nil {
			c.captureError(ctx, "store.save", err)
			saveErr = errors.Wrap(err, "failed to save state")
		}
	}

	if err := c.Sync.Push(ctx, snapshot); err != nil && !errors.Is(err, ErrNotConfigured) {
		c.logWarn("Failed to push state", "error", err)
		c.captureError(ctx, "sync.push", err)
	}

	notify(observers, snapshot)
	return saveErr
}

// read runs fn on the live state under the read lock; fn must not retain or modify it
func (c *Client) read(fn func(*State)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.state)
}

func (c *Client) observerList() []func(*State) {
	list := make([]func(*State), 0, len(c.observers))
	for _, fn := range c.observers {
		list = append(list, fn)
	}
	return list
}

func notify(observers []func(*State), snapshot *State) {
	for _, fn := range observers {
		fn(snapshot.Clone())
	}
}

func (c *Client) logWarn(msg string, keysAndValues ...interface{}) {
	if c.options.Logger != nil {
		c.options.Logger.Warn(msg, keysAndValues...)
	}
}

// captureError reports a collaborator failure to Sentry
func (c *Client) captureError(ctx context.Context, operation string, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("cashflow.operation", operation)
		if c.options.UserID != "" {
			scope.SetUser(sentry.User{ID: c.options.UserID})
		}
		hub.CaptureException(err)
	})
}

// Close releases the local store and flushes any pending Sentry events
func (c *Client) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Flush Sentry events with a 2 second timeout
	sentry.Flush(2 * time.Second)
	return firstErr
}
