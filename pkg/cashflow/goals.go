package cashflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CoverCount is the number of built-in goal covers
const CoverCount = 10

// Allocated sums the current amount of every goal
func (s *State) Allocated() float64 {
	var total float64
	for _, g := range s.Goals {
		total += g.CurrentAmount
	}
	return total
}

// FreeSavings is the part of totalSavings not allocated to any goal
func (s *State) FreeSavings(totalSavings float64) float64 {
	return maxFloat(0, totalSavings-s.Allocated())
}

// Goal returns the goal with id
func (s *State) Goal(id string) (*SavingsGoal, error) {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "goal %s", id)
}

func validateGoal(g *SavingsGoal) error {
	errs := &ValidationErrors{}
	if g.Name == "" {
		errs.Errors = append(errs.Errors, &ValidationError{EntityID: g.ID, Field: "name", Message: "name is required"})
	}
	if g.TargetAmount <= 0 {
		errs.Errors = append(errs.Errors, &ValidationError{EntityID: g.ID, Field: "targetAmount", Message: "must be positive", Value: g.TargetAmount})
	}
	if g.CoverIndex < 0 || g.CoverIndex >= CoverCount {
		errs.Errors = append(errs.Errors, &ValidationError{EntityID: g.ID, Field: "coverIndex", Message: "unknown cover", Value: g.CoverIndex})
	}
	return errs.orNil()
}

// AddGoal creates an empty goal
func (s *State) AddGoal(name string, target float64, cover int) (*SavingsGoal, error) {
	g := SavingsGoal{
		ID:           uuid.New().String(),
		Name:         name,
		TargetAmount: target,
		CoverIndex:   cover,
	}
	if err := validateGoal(&g); err != nil {
		return nil, err
	}

	s.Goals = append(s.Goals, g)
	return &s.Goals[len(s.Goals)-1], nil
}

// UpdateGoal changes the name, target and cover of a goal; the balance is
// only moved through Deposit and Withdraw
func (s *State) UpdateGoal(id, name string, target float64, cover int) error {
	g, err := s.Goal(id)
	if err != nil {
		return err
	}

	updated := *g
	updated.Name = name
	updated.TargetAmount = target
	updated.CoverIndex = cover
	if err := validateGoal(&updated); err != nil {
		return err
	}

	*g = updated
	return nil
}

// RemoveGoal deletes a goal, releasing its allocation
func (s *State) RemoveGoal(id string) error {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			s.Goals = append(s.Goals[:i], s.Goals[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNotFound, "goal %s", id)
}

// Deposit moves amount of unallocated savings into a goal. Deposits larger
// than the free balance are rejected and leave the state unchanged.
func (s *State) Deposit(id string, amount, totalSavings float64) error {
	g, err := s.Goal(id)
	if err != nil {
		return err
	}

	if amount <= 0 {
		return &ValidationError{EntityID: id, Field: "amount", Message: "must be positive", Value: amount}
	}
	if free := s.FreeSavings(totalSavings); amount > free {
		return errors.Wrapf(ErrGoalAllocation, "free balance is %s", formatMoney(free))
	}

	g.CurrentAmount = round2(g.CurrentAmount + amount)
	return nil
}

// Withdraw releases amount from a goal back to the free savings
func (s *State) Withdraw(id string, amount float64) error {
	g, err := s.Goal(id)
	if err != nil {
		return err
	}

	if amount <= 0 {
		return &ValidationError{EntityID: id, Field: "amount", Message: "must be positive", Value: amount}
	}
	if amount > g.CurrentAmount {
		return errors.Wrapf(ErrInsufficientGoalBalance, "goal holds %s", formatMoney(g.CurrentAmount))
	}

	g.CurrentAmount = round2(g.CurrentAmount - amount)
	return nil
}

// goalService implements GoalService
type goalService struct {
	client *Client
}

// totalSavings is today's projected savings balance, falling back to the
// opening savings when the projection cannot be built
func (c *Client) totalSavings(st *State) float64 {
	points, err := c.projector.Generate(st, 0)
	if err != nil || len(points) == 0 {
		return st.InitialSavings
	}
	return points[0].SavingsBalance
}

// List returns all goals
func (s *goalService) List(ctx context.Context) ([]SavingsGoal, error) {
	var goals []SavingsGoal
	s.client.read(func(st *State) {
		goals = append([]SavingsGoal{}, st.Goals...)
	})
	return goals, nil
}

// Add creates a goal
func (s *goalService) Add(ctx context.Context, name string, target float64, cover int) (*SavingsGoal, error) {
	var added SavingsGoal
	err := s.client.mutate(ctx, func(st *State) error {
		g, err := st.AddGoal(name, target, cover)
		if err != nil {
			return err
		}
		added = *g
		return nil
	})
	if added.ID == "" {
		return nil, err
	}
	return &added, err
}

// Update changes a goal
func (s *goalService) Update(ctx context.Context, id, name string, target float64, cover int) error {
	return s.client.mutate(ctx, func(st *State) error {
		return st.UpdateGoal(id, name, target, cover)
	})
}

// Remove deletes a goal
func (s *goalService) Remove(ctx context.Context, id string) error {
	return s.client.mutate(ctx, func(st *State) error {
		return st.RemoveGoal(id)
	})
}

// Deposit allocates free savings to a goal
func (s *goalService) Deposit(ctx context.Context, id string, amount float64) error {
	return s.client.mutate(ctx, func(st *State) error {
		return st.Deposit(id, amount, s.client.totalSavings(st))
	})
}

// Withdraw releases part of a goal's balance
func (s *goalService) Withdraw(ctx context.Context, id string, amount float64) error {
	return s.client.mutate(ctx, func(st *State) error {
		return st.Withdraw(id, amount)
	})
}

// Free returns the unallocated savings
func (s *goalService) Free(ctx context.Context) (float64, error) {
	var free float64
	s.client.read(func(st *State) {
		free = st.FreeSavings(s.client.totalSavings(st))
	})
	return round2(free), nil
}
