package cashflow

import (
	"math"
	"sort"
)

// FlowStatus is the headline health label of a projection
type FlowStatus string

const (
	FlowStatusCrisis    FlowStatus = "CRISIS"
	FlowStatusStable    FlowStatus = "STABLE"
	FlowStatusExpansion FlowStatus = "EXPANSION"
	FlowStatusThriving  FlowStatus = "THRIVING"
)

// Summary aggregates a projection for dashboards and the insights service
type Summary struct {
	HasData           bool       `json:"hasData"`
	TotalInflow       float64    `json:"totalInflow"`
	TotalOutflow      float64    `json:"totalOutflow"`
	MonthInflow       float64    `json:"monthInflow"`
	MonthOutflow      float64    `json:"monthOutflow"`
	AvgMonthlyOutflow float64    `json:"avgMonthlyOutflow"`
	TotalDebt         float64    `json:"totalDebt"`
	TotalSavings      float64    `json:"totalSavings"`
	NetWorth          float64    `json:"netWorth"`
	DailyBurn         float64    `json:"dailyBurn"`
	Runway            float64    `json:"runway"`
	StressedRunway    float64    `json:"stressedRunway"`
	RunwayImpact      float64    `json:"runwayImpact"`
	HealthScore       int        `json:"healthScore"`
	Status            FlowStatus `json:"status"`
}

// monthDays is the window treated as "this month" on the dashboard
const monthDays = 30

// Summarize derives the dashboard figures from points. currentBalance is the
// cash on hand today and stress a hypothetical spend used for the stressed
// runway.
func Summarize(points []Point, currentBalance, stress float64) Summary {
	var s Summary

	for _, p := range points {
		s.TotalInflow += p.Inflow
		s.TotalOutflow += p.Outflow
		if p.Inflow > 0 || p.Outflow > 0 {
			s.HasData = true
		}
	}
	if currentBalance > 0 {
		s.HasData = true
	}

	for i := 0; i < len(points) && i < monthDays; i++ {
		s.MonthInflow += points[i].Inflow
		s.MonthOutflow += points[i].Outflow
	}

	days := len(points)
	if days == 0 {
		days = 1
	}
	s.AvgMonthlyOutflow = s.TotalOutflow / (float64(days) / monthDays)

	if len(points) > 0 {
		s.TotalDebt = math.Abs(points[0].DebtBalance)
		s.TotalSavings = points[0].SavingsBalance
	}

	if s.MonthOutflow > 0 {
		impact := StressRunway(currentBalance, s.AvgMonthlyOutflow, stress)
		s.Runway = impact.Baseline
		s.StressedRunway = impact.Stressed
		s.RunwayImpact = impact.Impact
	}

	// Without any flows or cash the dashboard reports a zero score
	if !s.HasData {
		s.Status = FlowStatusCrisis
		return s
	}

	s.NetWorth = round2(currentBalance + s.TotalSavings - s.TotalDebt)
	s.DailyBurn = round2(s.TotalOutflow / float64(days))

	outflow := s.TotalOutflow
	if outflow == 0 {
		outflow = 1
	}
	score := math.Round(s.TotalInflow/outflow*40 + math.Min(s.Runway, 12)/12*60)
	s.HealthScore = int(math.Min(100, score))

	s.Status = FlowStatusStable
	switch {
	case s.HealthScore < 25 || s.NetWorth < 0:
		s.Status = FlowStatusCrisis
	case s.HealthScore >= 75:
		s.Status = FlowStatusThriving
	case s.HealthScore >= 50:
		s.Status = FlowStatusExpansion
	}

	s.TotalInflow = round2(s.TotalInflow)
	s.TotalOutflow = round2(s.TotalOutflow)
	s.MonthInflow = round2(s.MonthInflow)
	s.MonthOutflow = round2(s.MonthOutflow)
	s.AvgMonthlyOutflow = round2(s.AvgMonthlyOutflow)
	return s
}

// SimulatePath replays the projection's daily flows from currentBalance-shock
func SimulatePath(points []Point, currentBalance, shock float64) []float64 {
	path := make([]float64, len(points))
	running := currentBalance - shock
	for i, p := range points {
		running += p.Inflow - p.Outflow - p.InvestmentFlow
		path[i] = round2(running)
	}
	return path
}

// FirstBelow returns the first point whose balance drops under threshold
func FirstBelow(points []Point, threshold float64) (*Point, bool) {
	for i := range points {
		if points[i].Balance < threshold {
			return &points[i], true
		}
	}
	return nil, false
}

// DebtPlan summarises the debt portfolio
type DebtPlan struct {
	TotalGross     float64  `json:"totalGross"`
	TotalPaid      float64  `json:"totalPaid"`
	Balance        float64  `json:"balance"`
	ActiveCount    int      `json:"activeCount"`
	StaticCount    int      `json:"staticCount"`
	MonthlyPayment float64  `json:"monthlyPayment"`
	MonthsToClear  *int     `json:"monthsToClear,omitempty"`
	Debts          []Entity `json:"debts"`
}

// PlanDebts computes the debt plan for the given debt entities. Debts with an
// instalment plan come first, then by total descending.
func PlanDebts(debts []Entity) DebtPlan {
	var plan DebtPlan

	for i := range debts {
		d := &debts[i]
		plan.TotalGross += d.Total()
		plan.TotalPaid += d.Paid()
		if d.IsRenegotiated {
			plan.ActiveCount++
			plan.MonthlyPayment += d.Amount
		} else {
			plan.StaticCount++
		}
	}
	plan.Balance = round2(plan.TotalGross - plan.TotalPaid)

	if plan.MonthlyPayment > 0 {
		months := int(math.Ceil(plan.Balance / plan.MonthlyPayment))
		plan.MonthsToClear = &months
	}

	plan.Debts = append([]Entity{}, debts...)
	sort.SliceStable(plan.Debts, func(i, j int) bool {
		a, b := plan.Debts[i], plan.Debts[j]
		if a.IsRenegotiated != b.IsRenegotiated {
			return a.IsRenegotiated
		}
		return a.Total() > b.Total()
	})

	return plan
}
