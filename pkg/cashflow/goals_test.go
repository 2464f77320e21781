package cashflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoals_DepositClamp(t *testing.T) {
	s := NewState()
	trip, err := s.AddGoal("Trip", 2000, 3)
	require.NoError(t, err)
	tripID := trip.ID
	car, err := s.AddGoal("Car", 5000, 0)
	require.NoError(t, err)
	carID := car.ID

	require.NoError(t, s.Deposit(tripID, 600, 1000))
	assert.Equal(t, 400.0, s.FreeSavings(1000))

	before := s.Clone()
	err = s.Deposit(carID, 500, 1000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGoalAllocation))
	assert.Equal(t, before, s)

	require.NoError(t, s.Deposit(carID, 400, 1000))
	assert.Equal(t, 0.0, s.FreeSavings(1000))

	// free savings never go negative when the savings balance shrinks
	assert.Equal(t, 0.0, s.FreeSavings(500))
}

func TestGoals_Withdraw(t *testing.T) {
	s := NewState()
	g, err := s.AddGoal("Emergency", 1000, 1)
	require.NoError(t, err)
	id := g.ID
	require.NoError(t, s.Deposit(id, 300, 300))

	err = s.Withdraw(id, 301)
	assert.True(t, errors.Is(err, ErrInsufficientGoalBalance))

	err = s.Withdraw(id, 0)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	require.NoError(t, s.Withdraw(id, 120.5))
	goal, err := s.Goal(id)
	require.NoError(t, err)
	assert.Equal(t, 179.5, goal.CurrentAmount)
}

func TestGoals_Validation(t *testing.T) {
	s := NewState()

	_, err := s.AddGoal("", 100, 0)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = s.AddGoal("House", 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = s.AddGoal("House", 100, CoverCount)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	assert.Empty(t, s.Goals)
}

func TestGoals_UpdateAndRemove(t *testing.T) {
	s := NewState()
	g, err := s.AddGoal("Bike", 800, 2)
	require.NoError(t, err)
	id := g.ID

	require.NoError(t, s.UpdateGoal(id, "E-bike", 1500, 4))
	goal, err := s.Goal(id)
	require.NoError(t, err)
	assert.Equal(t, "E-bike", goal.Name)
	assert.Equal(t, 1500.0, goal.TargetAmount)
	assert.Equal(t, 4, goal.CoverIndex)

	assert.Error(t, s.UpdateGoal(id, "", 1500, 4))

	require.NoError(t, s.RemoveGoal(id))
	assert.True(t, errors.Is(s.RemoveGoal(id), ErrNotFound))
	_, err = s.Goal(id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSavingsGoal_Progress(t *testing.T) {
	assert.Equal(t, 0.0, (&SavingsGoal{TargetAmount: 0, CurrentAmount: 10}).Progress())
	assert.Equal(t, 25.0, (&SavingsGoal{TargetAmount: 400, CurrentAmount: 100}).Progress())
	assert.Equal(t, 100.0, (&SavingsGoal{TargetAmount: 400, CurrentAmount: 500}).Progress())
}
