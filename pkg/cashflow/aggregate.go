package cashflow

import "time"

// Aggregate expands every entity over the horizon and buckets the resulting
// events by calendar date. Incomes count as inflow, expenses as outflow and
// savings as investment; within a date events keep input order, incomes
// first, then expenses, then savings.
func (p *Projector) Aggregate(incomes, expenses, savings []Entity, horizonDays int) (map[string]*DayAggregate, error) {
	today := p.Today()
	return p.aggregate(incomes, expenses, savings, today, p.calendar().AddDays(today, horizonDays))
}

func (p *Projector) aggregate(incomes, expenses, savings []Entity, today, horizonEnd time.Time) (map[string]*DayAggregate, error) {
	daily := make(map[string]*DayAggregate)

	process := func(list []Entity, flow Flow) error {
		for i := range list {
			item := &list[i]
			if err := validateForProjection(item); err != nil {
				return err
			}

			kind := kindFor(item, flow)
			for _, occ := range p.expand(item, today, horizonEnd) {
				key := NewDate(occ.Date).Key()
				day, ok := daily[key]
				if !ok {
					day = &DayAggregate{}
					daily[key] = day
				}

				switch flow {
				case FlowInflow:
					day.Inflow += occ.Amount
				case FlowOutflow:
					day.Outflow += occ.Amount
				case FlowInvestment:
					day.Investment += occ.Amount
				}

				event := Event{Entity: *item, Flow: flow}
				event.Amount = occ.Amount
				event.Kind = kind
				day.Events = append(day.Events, event)
			}
		}
		return nil
	}

	if err := process(incomes, FlowInflow); err != nil {
		return nil, err
	}
	if err := process(expenses, FlowOutflow); err != nil {
		return nil, err
	}
	if err := process(savings, FlowInvestment); err != nil {
		return nil, err
	}

	return daily, nil
}

// kindFor derives the entity variant from the list it was supplied in
func kindFor(e *Entity, flow Flow) Kind {
	switch flow {
	case FlowInflow:
		return KindIncome
	case FlowInvestment:
		return KindSavings
	}
	if e.IsDebt {
		return KindDebt
	}
	return KindExpense
}
