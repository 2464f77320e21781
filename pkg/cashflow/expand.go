package cashflow

import (
	"time"

	"github.com/eshaffer321/cashflow-go/internal/calendar"
	internalTypes "github.com/eshaffer321/cashflow-go/internal/types"
)

// MaxIterations bounds how many recurrence steps are taken per entity
const MaxIterations = 500

// Projector expands entities and folds them into a daily projection.
// The zero value uses the wall clock, the local time zone and the
// Gregorian calendar.
type Projector struct {
	// Now returns the current instant; "today" is its calendar date
	Now func() time.Time

	// Location is the zone calendar dates are evaluated in
	Location *time.Location

	// Calendar performs the day and month arithmetic
	Calendar calendar.Calendar

	// Logger receives a warning when the iteration cap stops an entity
	Logger internalTypes.Logger
}

func (p *Projector) calendar() calendar.Calendar {
	if p.Calendar == nil {
		return calendar.Default
	}
	return p.Calendar
}

func (p *Projector) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// Today returns the current calendar date
func (p *Projector) Today() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return p.calendar().Today(now(), p.location())
}

// Expand returns the occurrences of e landing in [today, today+horizonDays].
// Recurrence is replayed from the entity's start date so that phase is kept,
// but only occurrences inside the window are returned.
func (p *Projector) Expand(e *Entity, horizonDays int) ([]Occurrence, error) {
	if err := validateForProjection(e); err != nil {
		return nil, err
	}

	cal := p.calendar()
	today := p.Today()
	return p.expand(e, today, cal.AddDays(today, horizonDays)), nil
}

func (p *Projector) expand(e *Entity, today, horizonEnd time.Time) []Occurrence {
	loc := today.Location()
	start := e.StartDate.In(loc).Time

	inWindow := func(d time.Time) bool {
		return !d.Before(today) && !d.After(horizonEnd)
	}

	// Static debts and one-off entries appear at most once, on their start date
	if e.IsStaticDebt() || e.Frequency == FrequencyOnce {
		if inWindow(start) {
			return []Occurrence{{Date: start, Multiplier: 1, Amount: e.Amount}}
		}
		return nil
	}

	var end time.Time
	if e.EndDate != nil && !e.EndDate.IsZero() {
		end = e.EndDate.In(loc).Time
	}

	amortizing := e.IsAmortizing()
	paid := 0.0
	if e.IsDebt {
		paid = e.Paid()
	}

	var occurrences []Occurrence
	current := start
	iterations := 0
	for !current.After(horizonEnd) && iterations < MaxIterations {
		if !end.IsZero() && current.After(end) {
			break
		}
		if amortizing && paid >= e.Total() {
			break
		}

		if !current.Before(today) {
			occ := Occurrence{Date: current, Multiplier: 1, Amount: e.Amount}

			if amortizing {
				if remaining := e.Total() - paid; e.Amount > remaining {
					nominal := e.Amount
					if nominal == 0 {
						nominal = 1
					}
					occ.Multiplier = remaining / nominal
					occ.Amount = remaining
				}
			}

			occurrences = append(occurrences, occ)
			paid += occ.Amount
		}

		iterations++
		current = p.step(e, start, current, iterations)
	}

	capped := iterations >= MaxIterations &&
		!current.After(horizonEnd) &&
		(end.IsZero() || !current.After(end)) &&
		!(amortizing && paid >= e.Total())
	if capped && p.Logger != nil {
		p.Logger.Warn("occurrence iteration cap reached", "entity", e.ID, "iterations", iterations)
	}

	return occurrences
}

// step returns the date following current. n is the number of steps taken so
// far, used to keep monthly recurrences anchored on the start date.
func (p *Projector) step(e *Entity, start, current time.Time, n int) time.Time {
	cal := p.calendar()

	switch e.Frequency {
	case FrequencyDaily:
		return cal.AddDays(current, 1)
	case FrequencyWeekly:
		return cal.AddDays(current, 7)
	case FrequencyBiweekly:
		return cal.AddDays(current, 14)
	case FrequencyMonthly:
		return cal.AddMonths(start, n)
	case FrequencyBiweeklyFixed:
		days := e.CustomDays
		if len(days) == 0 {
			days = DefaultCustomDays
		}
		return cal.NextMonthDay(current, days)
	default:
		return cal.AddDays(current, 30)
	}
}
