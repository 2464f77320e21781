package main

import (
	"context"
	"fmt"

	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// cashflowTools holds the cash-flow client and implements all tool handlers
type cashflowTools struct {
	client      *cashflow.Client
	horizonDays int
}

// reload picks up edits made by the CLI or other devices since the last call
func (t *cashflowTools) reload(ctx context.Context) error {
	if err := t.client.Load(ctx); err != nil {
		return fmt.Errorf("failed to reload plan: %w", err)
	}
	return nil
}

func (t *cashflowTools) horizon(days int) int {
	if days <= 0 {
		return t.horizonDays
	}
	return days
}

// GetProjection tool - day-by-day balance projection
type GetProjectionInput struct {
	Days        int  `json:"days,omitempty" jsonschema:"Number of days to project beyond today (default: configured horizon)"`
	IncludeIdle bool `json:"includeIdle,omitempty" jsonschema:"Include days without any scheduled event"`
}

type EventEntry struct {
	ID       string  `json:"id" jsonschema:"Entry ID"`
	Name     string  `json:"name" jsonschema:"Entry name"`
	Amount   float64 `json:"amount" jsonschema:"Amount of this occurrence"`
	Flow     string  `json:"flow" jsonschema:"inflow, outflow or investment"`
	Category string  `json:"category,omitempty" jsonschema:"Category label"`
	Priority string  `json:"priority" jsonschema:"Priority of the entry"`
}

type DayEntry struct {
	Date           string       `json:"date" jsonschema:"Day in YYYY-MM-DD format"`
	Inflow         float64      `json:"inflow" jsonschema:"Money received that day"`
	Outflow        float64      `json:"outflow" jsonschema:"Money spent that day"`
	Investment     float64      `json:"investment" jsonschema:"Money moved to savings that day"`
	Balance        float64      `json:"balance" jsonschema:"Cash balance at end of day"`
	SavingsBalance float64      `json:"savingsBalance" jsonschema:"Savings balance at end of day"`
	DebtBalance    float64      `json:"debtBalance" jsonschema:"Outstanding debt at end of day (zero or negative)"`
	Events         []EventEntry `json:"events,omitempty" jsonschema:"Events scheduled that day"`
}

type GetProjectionOutput struct {
	Days  []DayEntry `json:"days" jsonschema:"Projected days"`
	Count int        `json:"count" jsonschema:"Number of days returned"`
}

func (t *cashflowTools) GetProjection(ctx context.Context, req *mcp.CallToolRequest, input GetProjectionInput) (*mcp.CallToolResult, GetProjectionOutput, error) {
	if err := t.reload(ctx); err != nil {
		return nil, GetProjectionOutput{}, err
	}

	points, err := t.client.Projections.Generate(ctx, t.horizon(input.Days))
	if err != nil {
		return nil, GetProjectionOutput{}, fmt.Errorf("failed to project: %w", err)
	}

	days := make([]DayEntry, 0, len(points))
	for i := range points {
		p := &points[i]
		if !input.IncludeIdle && !p.HasEvents() {
			continue
		}
		day := DayEntry{
			Date:           p.Date.Key(),
			Inflow:         p.Inflow,
			Outflow:        p.Outflow,
			Investment:     p.InvestmentFlow,
			Balance:        p.Balance,
			SavingsBalance: p.SavingsBalance,
			DebtBalance:    p.DebtBalance,
		}
		for _, ev := range p.Events {
			day.Events = append(day.Events, EventEntry{
				ID:       ev.ID,
				Name:     ev.Name,
				Amount:   ev.Amount,
				Flow:     string(ev.Flow),
				Category: ev.Category,
				Priority: string(ev.Priority),
			})
		}
		days = append(days, day)
	}

	return nil, GetProjectionOutput{Days: days, Count: len(days)}, nil
}

// GetSummary tool - dashboard figures
type GetSummaryInput struct {
	Days   int     `json:"days,omitempty" jsonschema:"Projection horizon in days (default: configured horizon)"`
	Stress float64 `json:"stress,omitempty" jsonschema:"Hypothetical one-off spend used for the stressed runway"`
}

func (t *cashflowTools) GetSummary(ctx context.Context, req *mcp.CallToolRequest, input GetSummaryInput) (*mcp.CallToolResult, cashflow.Summary, error) {
	if err := t.reload(ctx); err != nil {
		return nil, cashflow.Summary{}, err
	}

	summary, err := t.client.Projections.Summary(ctx, t.horizon(input.Days), input.Stress)
	if err != nil {
		return nil, cashflow.Summary{}, fmt.Errorf("failed to summarize: %w", err)
	}
	return nil, *summary, nil
}

// GetRunway tool - months of runway with and without a shock
type GetRunwayInput struct {
	Shock float64 `json:"shock,omitempty" jsonschema:"Amount spent today (optional)"`
}

type GetRunwayOutput struct {
	Baseline float64 `json:"baseline" jsonschema:"Runway in months without the shock"`
	Stressed float64 `json:"stressed" jsonschema:"Runway in months after the shock"`
	Impact   float64 `json:"impact" jsonschema:"Months lost to the shock"`
}

func (t *cashflowTools) GetRunway(ctx context.Context, req *mcp.CallToolRequest, input GetRunwayInput) (*mcp.CallToolResult, GetRunwayOutput, error) {
	if err := t.reload(ctx); err != nil {
		return nil, GetRunwayOutput{}, err
	}

	if input.Shock < 0 {
		return nil, GetRunwayOutput{}, fmt.Errorf("shock must not be negative")
	}

	impact, err := t.client.Projections.Runway(ctx, t.horizonDays, input.Shock)
	if err != nil {
		return nil, GetRunwayOutput{}, fmt.Errorf("failed to estimate runway: %w", err)
	}
	return nil, GetRunwayOutput{
		Baseline: impact.Baseline,
		Stressed: impact.Stressed,
		Impact:   impact.Impact,
	}, nil
}

// ListEntities tool - planned entries of one kind
type ListEntitiesInput struct {
	Kind string `json:"kind" jsonschema:"One of income, expense, debt or savings"`
}

type ListEntitiesOutput struct {
	Entries []cashflow.Entity `json:"entries" jsonschema:"Planned entries"`
	Count   int               `json:"count" jsonschema:"Number of entries returned"`
}

func (t *cashflowTools) ListEntities(ctx context.Context, req *mcp.CallToolRequest, input ListEntitiesInput) (*mcp.CallToolResult, ListEntitiesOutput, error) {
	if err := t.reload(ctx); err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	entries, err := t.client.Entities.List(ctx, cashflow.Kind(input.Kind))
	if err != nil {
		return nil, ListEntitiesOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}
	return nil, ListEntitiesOutput{Entries: entries, Count: len(entries)}, nil
}

// FindLowBalance tool - first day below a threshold
type FindLowBalanceInput struct {
	Threshold float64 `json:"threshold,omitempty" jsonschema:"Balance threshold (default: 0)"`
	Days      int     `json:"days,omitempty" jsonschema:"Projection horizon in days (default: configured horizon)"`
}

type FindLowBalanceOutput struct {
	Found   bool    `json:"found" jsonschema:"Whether the balance drops below the threshold"`
	Date    string  `json:"date,omitempty" jsonschema:"First day below the threshold"`
	Balance float64 `json:"balance,omitempty" jsonschema:"Balance on that day"`
}

func (t *cashflowTools) FindLowBalance(ctx context.Context, req *mcp.CallToolRequest, input FindLowBalanceInput) (*mcp.CallToolResult, FindLowBalanceOutput, error) {
	if err := t.reload(ctx); err != nil {
		return nil, FindLowBalanceOutput{}, err
	}

	points, err := t.client.Projections.Generate(ctx, t.horizon(input.Days))
	if err != nil {
		return nil, FindLowBalanceOutput{}, fmt.Errorf("failed to project: %w", err)
	}

	p, ok := cashflow.FirstBelow(points, input.Threshold)
	if !ok {
		return nil, FindLowBalanceOutput{}, nil
	}
	return nil, FindLowBalanceOutput{Found: true, Date: p.Date.Key(), Balance: p.Balance}, nil
}
