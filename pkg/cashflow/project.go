package cashflow

import "time"

// DebtPool sums the outstanding balance of every debt expense
func DebtPool(expenses []Entity) float64 {
	var pool float64
	for i := range expenses {
		if expenses[i].IsDebt {
			pool += expenses[i].Remaining()
		}
	}
	return pool
}

// Project walks the horizon day by day from today, applying each day's
// aggregate to the running balance, savings and debt pool. It returns
// horizonDays+1 points, or none for a negative horizon.
func (p *Projector) Project(daily map[string]*DayAggregate, initialBalance, initialSavings, debtPool float64, horizonDays int) []Point {
	return p.project(daily, initialBalance, initialSavings, debtPool, p.Today(), horizonDays)
}

func (p *Projector) project(daily map[string]*DayAggregate, initialBalance, initialSavings, debtPool float64, today time.Time, horizonDays int) []Point {
	if horizonDays < 0 {
		return []Point{}
	}

	cal := p.calendar()
	projection := make([]Point, 0, horizonDays+1)

	runningBalance := initialBalance
	runningSavings := initialSavings
	runningDebt := debtPool

	for i := 0; i <= horizonDays; i++ {
		date := NewDate(cal.AddDays(today, i))

		data, ok := daily[date.Key()]
		if !ok {
			data = &DayAggregate{}
		}

		var debtPayment float64
		for _, ev := range data.Events {
			if ev.IsDebt {
				debtPayment += ev.Amount
			}
		}

		runningBalance += data.Inflow - data.Outflow - data.Investment
		runningSavings += data.Investment
		runningDebt -= debtPayment

		// A negative cash position counts as additional debt exposure
		exposure := runningDebt + maxFloat(0, -runningBalance)

		events := data.Events
		if events == nil {
			events = []Event{}
		}

		projection = append(projection, Point{
			Date:           date,
			Balance:        round2(runningBalance),
			SavingsBalance: round2(runningSavings),
			DebtBalance:    negate(round2(maxFloat(0, exposure))),
			Inflow:         round2(data.Inflow),
			Outflow:        round2(data.Outflow),
			InvestmentFlow: round2(data.Investment),
			Events:         events,
		})
	}

	return projection
}

// Generate runs the whole pipeline over a snapshot of the state
func (p *Projector) Generate(state *State, horizonDays int) ([]Point, error) {
	if horizonDays < 0 {
		return []Point{}, nil
	}

	today := p.Today()
	horizonEnd := p.calendar().AddDays(today, horizonDays)

	daily, err := p.aggregate(state.Incomes, state.Expenses, state.Savings, today, horizonEnd)
	if err != nil {
		return nil, err
	}

	return p.project(daily, state.InitialBalance, state.InitialSavings, DebtPool(state.Expenses), today, horizonDays), nil
}

// GenerateProjections is a convenience wrapper around a zero-value Projector
func GenerateProjections(incomes, expenses, savings []Entity, initialBalance, initialSavings float64, horizonDays int) ([]Point, error) {
	p := &Projector{}
	return p.Generate(&State{
		Incomes:        incomes,
		Expenses:       expenses,
		Savings:        savings,
		InitialBalance: initialBalance,
		InitialSavings: initialSavings,
	}, horizonDays)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// negate flips v without producing negative zero
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}
