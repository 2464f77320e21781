package cashflow

import (
	"context"
	"io"
	"time"
)

// projectionService implements ProjectionService
type projectionService struct {
	client *Client
}

// Generate runs the pipeline over a snapshot of the state
func (s *projectionService) Generate(ctx context.Context, horizonDays int) ([]Point, error) {
	points, _, err := s.generate(horizonDays)
	return points, err
}

func (s *projectionService) generate(horizonDays int) ([]Point, *State, error) {
	snapshot := s.client.State()
	points, err := s.client.projector.Generate(snapshot, horizonDays)
	if err != nil {
		return nil, nil, err
	}
	return points, snapshot, nil
}

// Summary returns the dashboard figures
func (s *projectionService) Summary(ctx context.Context, horizonDays int, stress float64) (*Summary, error) {
	points, snapshot, err := s.generate(horizonDays)
	if err != nil {
		return nil, err
	}
	summary := Summarize(points, snapshot.InitialBalance, stress)
	return &summary, nil
}

// Runway returns the runway with and without the shock
func (s *projectionService) Runway(ctx context.Context, horizonDays int, shock float64) (*RunwayImpact, error) {
	summary, err := s.Summary(ctx, horizonDays, shock)
	if err != nil {
		return nil, err
	}
	return &RunwayImpact{
		Baseline: summary.Runway,
		Stressed: summary.StressedRunway,
		Impact:   summary.RunwayImpact,
	}, nil
}

// DebtPlan returns the debt portfolio plan
func (s *projectionService) DebtPlan(ctx context.Context) (*DebtPlan, error) {
	var debts []Entity
	s.client.read(func(st *State) {
		debts = cloneEntities(st.Entities(KindDebt))
	})
	plan := PlanDebts(debts)
	return &plan, nil
}

// ExportCSV writes the projection as CSV
func (s *projectionService) ExportCSV(ctx context.Context, w io.Writer, horizonDays int) error {
	points, err := s.Generate(ctx, horizonDays)
	if err != nil {
		return err
	}
	return WriteCSV(w, points)
}

// ExportICS writes the projection as iCalendar
func (s *projectionService) ExportICS(ctx context.Context, w io.Writer, horizonDays int) error {
	points, err := s.Generate(ctx, horizonDays)
	if err != nil {
		return err
	}
	return WriteICS(w, points, s.client.now())
}

func (c *Client) now() time.Time {
	if c.options.Now != nil {
		return c.options.Now()
	}
	return time.Now()
}
