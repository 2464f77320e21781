package cashflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExpand_AmortizingDebt(t *testing.T) {
	p := testProjector()

	t.Run("final instalment is clipped to the remainder", func(t *testing.T) {
		debt := &Entity{
			ID: "loan", Name: "Loan", Amount: 300, Frequency: FrequencyMonthly,
			StartDate: day(time.January, 10), IsDebt: true, IsRenegotiated: true,
			TotalAmount: ptr(1000), AmountAlreadyPaid: ptr(0),
		}

		occs, err := p.Expand(debt, 365)
		require.NoError(t, err)

		assert.Equal(t, []float64{300, 300, 300, 100}, amounts(occs))
		assert.Equal(t, []string{"2026-01-10", "2026-02-10", "2026-03-10", "2026-04-10"}, keys(occs))
		assert.InDelta(t, 1.0/3.0, occs[3].Multiplier, 1e-9)

		var sum float64
		for _, o := range occs {
			sum += o.Amount
		}
		assert.InDelta(t, 1000, sum, 1e-9)
	})

	t.Run("already paid counts towards the total", func(t *testing.T) {
		debt := &Entity{
			ID: "loan", Amount: 300, Frequency: FrequencyMonthly,
			StartDate: day(time.January, 10), IsDebt: true, IsRenegotiated: true,
			TotalAmount: ptr(1000), AmountAlreadyPaid: ptr(400),
		}

		occs, err := p.Expand(debt, 365)
		require.NoError(t, err)
		assert.Equal(t, []float64{300, 300}, amounts(occs))
	})

	t.Run("fully paid debt emits nothing", func(t *testing.T) {
		debt := &Entity{
			ID: "loan", Amount: 300, Frequency: FrequencyMonthly,
			StartDate: day(time.January, 10), IsDebt: true, IsRenegotiated: true,
			TotalAmount: ptr(1000), AmountAlreadyPaid: ptr(1200),
		}

		occs, err := p.Expand(debt, 365)
		require.NoError(t, err)
		assert.Empty(t, occs)
	})
}

func TestExpand_StaticDebtSingleShot(t *testing.T) {
	p := testProjector()

	debt := &Entity{
		ID: "card", Amount: 3000, Frequency: FrequencyDaily,
		StartDate: day(time.January, 20), IsDebt: true,
		TotalAmount: ptr(5000), AmountAlreadyPaid: ptr(2000),
	}

	occs, err := p.Expand(debt, 90)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "2026-01-20", NewDate(occs[0].Date).Key())
	assert.Equal(t, 1.0, occs[0].Multiplier)

	debt.StartDate = day(time.January, 9)
	occs, err = p.Expand(debt, 90)
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpand_Recurrence(t *testing.T) {
	p := testProjector()

	tests := []struct {
		name    string
		entity  Entity
		horizon int
		today   time.Time
		want    []string
	}{
		{
			name:    "one-off inside the window",
			entity:  Entity{Frequency: FrequencyOnce, StartDate: day(time.January, 12)},
			horizon: 5,
			want:    []string{"2026-01-12"},
		},
		{
			name:    "one-off outside the window",
			entity:  Entity{Frequency: FrequencyOnce, StartDate: day(time.January, 16)},
			horizon: 5,
			want:    []string{},
		},
		{
			name:    "daily includes today and the window end",
			entity:  Entity{Frequency: FrequencyDaily, StartDate: day(time.January, 1)},
			horizon: 2,
			want:    []string{"2026-01-10", "2026-01-11", "2026-01-12"},
		},
		{
			name:    "weekly keeps the phase of a past start",
			entity:  Entity{Frequency: FrequencyWeekly, StartDate: day(time.January, 1)},
			horizon: 14,
			want:    []string{"2026-01-15", "2026-01-22"},
		},
		{
			name:    "biweekly",
			entity:  Entity{Frequency: FrequencyBiweekly, StartDate: day(time.January, 3)},
			horizon: 30,
			want:    []string{"2026-01-17", "2026-01-31"},
		},
		{
			name: "monthly stops at the end date",
			entity: Entity{
				Frequency: FrequencyMonthly, StartDate: day(time.January, 10),
				EndDate: datePtr(day(time.February, 15)),
			},
			horizon: 90,
			want:    []string{"2026-01-10", "2026-02-10"},
		},
		{
			name:    "monthly clamps to month end and returns to the anchor day",
			entity:  Entity{Frequency: FrequencyMonthly, StartDate: DateOf(2025, time.December, 31, time.UTC)},
			horizon: 80,
			want:    []string{"2026-01-31", "2026-02-28", "2026-03-31"},
		},
		{
			name:    "biweekly-fixed defaults to the 1st and 15th",
			entity:  Entity{Frequency: FrequencyBiweeklyFixed, StartDate: day(time.January, 1)},
			horizon: 30,
			want:    []string{"2026-01-15", "2026-02-01"},
		},
		{
			name: "biweekly-fixed clamps days past the month end",
			entity: Entity{
				Frequency: FrequencyBiweeklyFixed, StartDate: day(time.January, 15),
				CustomDays: []int{31, 15},
			},
			horizon: 50,
			today:   time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC),
			want:    []string{"2026-01-15", "2026-01-31", "2026-02-15", "2026-02-28"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entity.ID = "e"
			tt.entity.Amount = 10
			proj := p
			if !tt.today.IsZero() {
				proj = &Projector{Now: func() time.Time { return tt.today }, Location: time.UTC}
			}
			occs, err := proj.Expand(&tt.entity, tt.horizon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(occs))
		})
	}
}

func TestExpand_Validation(t *testing.T) {
	p := testProjector()

	tests := []struct {
		name   string
		entity Entity
		field  string
	}{
		{"missing start date", Entity{ID: "a", Frequency: FrequencyMonthly}, "startDate"},
		{"unknown frequency", Entity{ID: "b", Frequency: "fortnightly", StartDate: day(time.January, 1)}, "frequency"},
		{"custom day out of range", Entity{ID: "c", Frequency: FrequencyBiweeklyFixed, StartDate: day(time.January, 1), CustomDays: []int{1, 32}}, "customDays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Expand(&tt.entity, 30)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))

			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs.Errors, 1)
			assert.Equal(t, tt.field, verrs.Errors[0].Field)
			assert.Equal(t, tt.entity.ID, verrs.Errors[0].EntityID)
		})
	}
}

func TestExpand_IterationCap(t *testing.T) {
	logger := &MockLogger{}
	logger.On("Warn", "occurrence iteration cap reached", []interface{}{"entity", "coffee", "iterations", MaxIterations}).Return().Once()

	p := testProjector()
	p.Logger = logger

	// 600 daily steps are needed to reach today; the cap stops the replay first
	coffee := &Entity{ID: "coffee", Amount: 5, Frequency: FrequencyDaily, StartDate: NewDate(fixedNow.AddDate(0, 0, -600))}
	occs, err := p.Expand(coffee, 30)
	require.NoError(t, err)
	assert.Empty(t, occs)
	logger.AssertExpectations(t)

	// a recurrence that ends naturally does not warn
	quiet := &MockLogger{}
	p.Logger = quiet
	_, err = p.Expand(&Entity{ID: "rent", Amount: 5, Frequency: FrequencyMonthly, StartDate: day(time.January, 1)}, 30)
	require.NoError(t, err)
	quiet.AssertNotCalled(t, "Warn", mock.Anything, mock.Anything)
}

func TestExpand_NegativeAmountIsNotSpecial(t *testing.T) {
	p := testProjector()
	occs, err := p.Expand(&Entity{ID: "refund", Amount: -25, Frequency: FrequencyOnce, StartDate: day(time.January, 10)}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{-25}, amounts(occs))
}
