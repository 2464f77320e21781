package cashflow

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
)

// ProductID identifies calendars generated by this package
const ProductID = "-//cashflow-go//Projection//EN"

var csvHeader = []string{"DATE", "DAY", "EVENT", "INFLOW", "OUTFLOW", "RESERVE", "BALANCE"}

// WriteCSV writes one row per event, or a placeholder row for quiet days.
// Date, weekday and balance appear only on a day's first row.
func WriteCSV(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	for _, p := range points {
		date := p.Date.Key()
		day := p.Date.Weekday().String()[:3]
		balance := formatMoney(p.Balance)

		if len(p.Events) == 0 {
			if err := cw.Write([]string{date, day, "-", "0.00", "0.00", "0.00", balance}); err != nil {
				return errors.Wrapf(err, "failed to write csv row for %s", date)
			}
			continue
		}

		for i, ev := range p.Events {
			var inflow, outflow, reserve float64
			switch ev.Flow {
			case FlowInflow:
				inflow = ev.Amount
			case FlowOutflow:
				outflow = ev.Amount
			case FlowInvestment:
				reserve = ev.Amount
			}

			row := []string{"", "", ev.Name, formatMoney(inflow), formatMoney(outflow), formatMoney(reserve), ""}
			if i == 0 {
				row[0], row[1], row[6] = date, day, balance
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrapf(err, "failed to write csv row for %s", date)
			}
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

const uidDomain = "@cashflow-go"

// EventUID is the stable calendar identifier of an entity occurrence. It
// never contains a slash so it can double as a calendar object name.
func EventUID(entityID string, date Date) string {
	return fmt.Sprintf("%s-%s%s", strings.ReplaceAll(entityID, "/", "_"), date.Key(), uidDomain)
}

// ParseEventUID returns the date of an occurrence uid made by EventUID. ok is
// false for uids this package did not produce.
func ParseEventUID(uid string) (date Date, ok bool) {
	rest, found := strings.CutSuffix(uid, uidDomain)
	if !found || len(rest) < len(dateLayout)+2 || rest[len(rest)-len(dateLayout)-1] != '-' {
		return Date{}, false
	}
	d, err := ParseDate(rest[len(rest)-len(dateLayout):], time.UTC)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// CalendarEvents converts every projected event to an all-day VEVENT.
// stamp is written as DTSTAMP.
func CalendarEvents(points []Point, stamp time.Time) []*ical.Event {
	var events []*ical.Event
	for _, p := range points {
		for _, ev := range p.Events {
			vevent := ical.NewEvent()
			vevent.Props.SetText(ical.PropUID, EventUID(ev.ID, p.Date))
			vevent.Props.SetText(ical.PropSummary, eventSummary(&ev))
			vevent.Props.SetDate(ical.PropDateTimeStart, p.Date.Time)
			vevent.Props.SetDate(ical.PropDateTimeEnd, p.Date.AddDate(0, 0, 1))
			vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
			if ev.Category != "" {
				vevent.Props.SetText(ical.PropCategories, ev.Category)
			}
			vevent.Props.SetText(ical.PropDescription, fmt.Sprintf("%s %s, balance %s", ev.Kind, ev.Priority, formatMoney(p.Balance)))
			events = append(events, vevent)
		}
	}
	return events
}

// NewCalendar wraps events in a VCALENDAR
func NewCalendar(events ...*ical.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	for _, ev := range events {
		cal.Children = append(cal.Children, ev.Component)
	}
	return cal
}

// WriteICS encodes the projection as a single iCalendar document
func WriteICS(w io.Writer, points []Point, stamp time.Time) error {
	cal := NewCalendar(CalendarEvents(points, stamp)...)
	if len(cal.Children) == 0 {
		// an empty VCALENDAR is not valid iCalendar
		return errors.New("projection has no events to export")
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return errors.Wrap(err, "failed to encode calendar")
	}
	return nil
}

func eventSummary(ev *Event) string {
	sign := "-"
	switch ev.Flow {
	case FlowInflow:
		sign = "+"
	case FlowInvestment:
		sign = ">"
	}
	return fmt.Sprintf("%s %s%s", ev.Name, sign, formatMoney(ev.Amount))
}
