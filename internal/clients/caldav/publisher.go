package caldav

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/pkg/errors"
)

// Options configures a Publisher
type Options struct {
	BaseURL  string
	Username string
	Password string
	// Calendar is the collection path, e.g. /calendars/me/cashflow/
	Calendar string
	Timeout  time.Duration
	// Transport overrides the HTTP round tripper; basic auth is layered on top
	Transport http.RoundTripper
}

// Publisher writes VEVENTs to a CalDAV collection, one object per event
type Publisher struct {
	opts   Options
	client *caldav.Client
}

// NewPublisher creates a publisher. The connection is opened lazily.
func NewPublisher(opts *Options) *Publisher {
	p := &Publisher{}
	if opts != nil {
		p.opts = *opts
	}
	if p.opts.Timeout == 0 {
		p.opts.Timeout = 30 * time.Second
	}
	return p
}

// IsConfigured returns true if the publisher has an endpoint and a calendar
func (p *Publisher) IsConfigured() bool {
	return p.opts.BaseURL != "" && p.opts.Calendar != ""
}

// connect establishes connection to CalDAV server
func (p *Publisher) connect() (*caldav.Client, error) {
	if p.client != nil {
		return p.client, nil
	}

	base := p.opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: p.opts.Username,
			password: p.opts.Password,
			base:     base,
		},
		Timeout: p.opts.Timeout,
	}

	client, err := caldav.NewClient(httpClient, p.opts.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to CalDAV")
	}

	p.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.username != "" {
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.username, t.password)
	}
	return t.base.RoundTrip(req)
}

// ObjectPath returns the path an event with uid is stored at. A uid without
// slashes maps back unchanged through UIDs.
func (p *Publisher) ObjectPath(uid string) string {
	return p.collection() + strings.ReplaceAll(uid, "/", "_") + ".ics"
}

func (p *Publisher) collection() string {
	if strings.HasSuffix(p.opts.Calendar, "/") {
		return p.opts.Calendar
	}
	return p.opts.Calendar + "/"
}

// Publish PUTs every event as its own calendar object. PUT replaces, so
// republishing the same projection is idempotent. It stops at the first
// failure and returns how many events were written.
func (p *Publisher) Publish(ctx context.Context, events []*ical.Event) (int, error) {
	if !p.IsConfigured() {
		return 0, errors.New("calendar path not specified")
	}

	client, err := p.connect()
	if err != nil {
		return 0, err
	}

	written := 0
	for _, event := range events {
		uid, err := event.Props.Text(ical.PropUID)
		if err != nil || uid == "" {
			return written, errors.New("event without UID")
		}

		cal := ical.NewCalendar()
		cal.Props.SetText(ical.PropVersion, "2.0")
		cal.Props.SetText(ical.PropProductID, "-//cashflow-go//Publisher//EN")
		cal.Children = append(cal.Children, event.Component)

		if _, err := client.PutCalendarObject(ctx, p.ObjectPath(uid), cal); err != nil {
			return written, errors.Wrapf(err, "put event %s", uid)
		}
		written++
	}

	return written, nil
}

// UIDs lists the uids of the calendar objects in the collection
func (p *Publisher) UIDs(ctx context.Context) ([]string, error) {
	if !p.IsConfigured() {
		return nil, errors.New("calendar path not specified")
	}

	client, err := p.connect()
	if err != nil {
		return nil, err
	}

	files, err := client.ReadDir(ctx, p.collection(), false)
	if err != nil {
		return nil, errors.Wrap(err, "list calendar objects")
	}

	var uids []string
	for _, f := range files {
		name := path.Base(f.Path)
		if f.IsDir || !strings.HasSuffix(name, ".ics") {
			continue
		}
		uids = append(uids, strings.TrimSuffix(name, ".ics"))
	}
	return uids, nil
}

// Remove deletes a previously published event
func (p *Publisher) Remove(ctx context.Context, uid string) error {
	client, err := p.connect()
	if err != nil {
		return err
	}
	if err := client.RemoveAll(ctx, p.ObjectPath(uid)); err != nil {
		return errors.Wrapf(err, "delete event %s", uid)
	}
	return nil
}
