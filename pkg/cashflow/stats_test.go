package cashflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatMonth builds 30 points with inflow on day 0 and outflow on day 1
func flatMonth(inflow, outflow, debt float64) []Point {
	points := make([]Point, 30)
	for i := range points {
		points[i] = Point{Date: NewDate(fixedNow.AddDate(0, 0, i)), Events: []Event{}}
	}
	points[0].Inflow = inflow
	points[0].DebtBalance = -debt
	points[1].Outflow = outflow
	return points
}

func TestSummarize(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		s := Summarize(flatMonth(0, 0, 0), 0, 0)
		assert.False(t, s.HasData)
		assert.Equal(t, 0, s.HealthScore)
		assert.Equal(t, FlowStatusCrisis, s.Status)
	})

	t.Run("thriving", func(t *testing.T) {
		s := Summarize(flatMonth(3000, 1000, 0), 3000, 1000)
		assert.True(t, s.HasData)
		assert.Equal(t, 3000.0, s.MonthInflow)
		assert.Equal(t, 1000.0, s.MonthOutflow)
		assert.Equal(t, 1000.0, s.AvgMonthlyOutflow)
		assert.Equal(t, 3.0, s.Runway)
		assert.Equal(t, 2.0, s.StressedRunway)
		assert.Equal(t, 1.0, s.RunwayImpact)
		assert.Equal(t, 3000.0, s.NetWorth)
		assert.Equal(t, 33.33, s.DailyBurn)
		assert.Equal(t, 100, s.HealthScore)
		assert.Equal(t, FlowStatusThriving, s.Status)
	})

	t.Run("expansion", func(t *testing.T) {
		s := Summarize(flatMonth(1000, 1000, 0), 3000, 0)
		assert.Equal(t, 55, s.HealthScore)
		assert.Equal(t, FlowStatusExpansion, s.Status)
	})

	t.Run("stable", func(t *testing.T) {
		s := Summarize(flatMonth(1000, 1000, 0), 1500, 0)
		assert.Equal(t, 48, s.HealthScore)
		assert.Equal(t, FlowStatusStable, s.Status)
	})

	t.Run("negative net worth is a crisis", func(t *testing.T) {
		s := Summarize(flatMonth(3000, 1000, 5000), 3000, 0)
		assert.Equal(t, 5000.0, s.TotalDebt)
		assert.Equal(t, -2000.0, s.NetWorth)
		assert.Equal(t, FlowStatusCrisis, s.Status)
	})

	t.Run("no outflow means no runway", func(t *testing.T) {
		s := Summarize(flatMonth(1000, 0, 0), 500, 0)
		assert.Zero(t, s.Runway)
		// inflow over a unit outflow saturates the score
		assert.Equal(t, 100, s.HealthScore)
	})
}

func TestSummarize_FromProjection(t *testing.T) {
	points, err := testProjector().Generate(scenarioState(), 60)
	require.NoError(t, err)

	s := Summarize(points, 0, 0)
	assert.Equal(t, 10000.0, s.TotalInflow)
	assert.Equal(t, 2000.0, s.TotalOutflow)
	// 2026-01-10 .. 2026-02-08 covers one salary and one rent
	assert.Equal(t, 5000.0, s.MonthInflow)
	assert.Equal(t, 1000.0, s.MonthOutflow)
}

func TestSimulatePath(t *testing.T) {
	points := flatMonth(300, 100, 0)[:3]
	assert.Equal(t, []float64{700, 600, 600}, SimulatePath(points, 1000, 600))
}

func TestFirstBelow(t *testing.T) {
	points := []Point{{Balance: 100}, {Balance: 10}, {Balance: -5}}

	p, ok := FirstBelow(points, 0)
	require.True(t, ok)
	assert.Equal(t, -5.0, p.Balance)

	p, ok = FirstBelow(points, 50)
	require.True(t, ok)
	assert.Equal(t, 10.0, p.Balance)

	_, ok = FirstBelow(points, -10)
	assert.False(t, ok)
}

func TestPlanDebts(t *testing.T) {
	debts := []Entity{
		{ID: "a", Name: "Phone", Amount: 200, IsDebt: true, IsRenegotiated: true, TotalAmount: ptr(1000), AmountAlreadyPaid: ptr(400), Frequency: FrequencyMonthly, StartDate: day(time.January, 1)},
		{ID: "b", Name: "Card", Amount: 3000, IsDebt: true, TotalAmount: ptr(5000), AmountAlreadyPaid: ptr(2000)},
		{ID: "c", Name: "Car", Amount: 500, IsDebt: true, IsRenegotiated: true, TotalAmount: ptr(3000)},
	}

	plan := PlanDebts(debts)
	assert.Equal(t, 9000.0, plan.TotalGross)
	assert.Equal(t, 2400.0, plan.TotalPaid)
	assert.Equal(t, 6600.0, plan.Balance)
	assert.Equal(t, 2, plan.ActiveCount)
	assert.Equal(t, 1, plan.StaticCount)
	assert.Equal(t, 700.0, plan.MonthlyPayment)
	require.NotNil(t, plan.MonthsToClear)
	assert.Equal(t, 10, *plan.MonthsToClear)

	var order []string
	for _, d := range plan.Debts {
		order = append(order, d.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)

	// input order is untouched
	assert.Equal(t, "a", debts[0].ID)

	assert.Nil(t, PlanDebts(debts[1:2]).MonthsToClear)
}
