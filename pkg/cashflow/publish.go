package cashflow

import (
	"context"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
)

// calendarService implements CalendarService
type calendarService struct {
	client *Client
}

// Publish pushes the projected events to the configured calendar and prunes
// the ones that dropped out of the projection
func (s *calendarService) Publish(ctx context.Context, horizonDays int) (int, error) {
	if s.client.publisher == nil {
		return 0, errors.Wrap(ErrNotConfigured, "calendar publishing")
	}

	points, err := s.client.Projections.Generate(ctx, horizonDays)
	if err != nil {
		return 0, err
	}

	events := CalendarEvents(points, s.client.now())

	n := 0
	if len(events) > 0 {
		n, err = s.client.publisher.Publish(ctx, events)
		if err != nil {
			err = errors.Wrapf(err, "published %d of %d events", n, len(events))
			s.client.captureError(ctx, "calendar.publish", err)
			return n, err
		}
	}

	if len(points) == 0 {
		return n, nil
	}
	removed, err := s.prune(ctx, events, points[0].Date)
	if err != nil {
		s.client.captureError(ctx, "calendar.prune", err)
		return n, err
	}
	if removed > 0 && s.client.options.Logger != nil {
		s.client.options.Logger.Info("Removed stale calendar events", "count", removed)
	}
	return n, nil
}

// prune deletes our events dated from onwards that are not in current.
// Past events and events created by other tools are left alone.
func (s *calendarService) prune(ctx context.Context, current []*ical.Event, from Date) (int, error) {
	keep := make(map[string]bool, len(current))
	for _, ev := range current {
		if uid, err := ev.Props.Text(ical.PropUID); err == nil {
			keep[uid] = true
		}
	}

	uids, err := s.client.publisher.UIDs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list published events")
	}

	removed := 0
	for _, uid := range uids {
		if keep[uid] {
			continue
		}
		date, ok := ParseEventUID(uid)
		if !ok || date.Key() < from.Key() {
			continue
		}
		if err := s.client.publisher.Remove(ctx, uid); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
