package cashflow

import "time"

// Frequency is the recurrence rule of an entity
type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyWeekly        Frequency = "weekly"
	FrequencyBiweekly      Frequency = "biweekly"
	FrequencyMonthly       Frequency = "monthly"
	FrequencyBiweeklyFixed Frequency = "biweekly-fixed"
	FrequencyOnce          Frequency = "once"
)

// Valid reports whether f is a known recurrence rule
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyBiweeklyFixed, FrequencyOnce:
		return true
	}
	return false
}

// Priority tags an entity. PriorityReserve marks money flowing to savings.
type Priority string

const (
	PriorityCritical  Priority = "CRITICAL"
	PriorityNecessary Priority = "NECESSARY"
	PriorityFlexible  Priority = "FLEXIBLE"
	PriorityUnplanned Priority = "UNPLANNED"
	PriorityReserve   Priority = "RESERVE"
)

// Status is informational only; the projection ignores it
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusConfirmed Status = "CONFIRMED"
)

// Kind discriminates the four entity variants
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindDebt    Kind = "debt"
	KindSavings Kind = "savings"
)

// Flow classifies an event's effect on the running balance
type Flow string

const (
	FlowInflow     Flow = "inflow"
	FlowOutflow    Flow = "outflow"
	FlowInvestment Flow = "investment"
)

// DefaultCustomDays is used by biweekly-fixed entities without custom days
var DefaultCustomDays = []int{1, 15}

// Entity is one recurring or one-off cash movement
type Entity struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Kind              Kind      `json:"kind,omitempty"`
	Amount            float64   `json:"amount"`
	TotalAmount       *float64  `json:"totalAmount,omitempty"`
	AmountAlreadyPaid *float64  `json:"amountAlreadyPaid,omitempty"`
	IsRenegotiated    bool      `json:"isRenegotiated,omitempty"`
	Frequency         Frequency `json:"frequency"`
	StartDate         Date      `json:"startDate"`
	EndDate           *Date     `json:"endDate,omitempty"`
	Category          string    `json:"category"`
	CategoryColor     string    `json:"categoryColor,omitempty"`
	Priority          Priority  `json:"priority"`
	Status            Status    `json:"status"`
	CustomDays        []int     `json:"customDays,omitempty"`
	IsDebt            bool      `json:"isDebt,omitempty"`
}

// Total returns the debt total, 0 when unset
func (e *Entity) Total() float64 {
	if e.TotalAmount == nil {
		return 0
	}
	return *e.TotalAmount
}

// Paid returns the amount already paid on a debt, 0 when unset
func (e *Entity) Paid() float64 {
	if e.AmountAlreadyPaid == nil {
		return 0
	}
	return *e.AmountAlreadyPaid
}

// Remaining returns the outstanding debt balance, floored at zero
func (e *Entity) Remaining() float64 {
	if r := e.Total() - e.Paid(); r > 0 {
		return r
	}
	return 0
}

// IsStaticDebt reports whether the entity is a debt without an instalment plan
func (e *Entity) IsStaticDebt() bool {
	return e.IsDebt && !e.IsRenegotiated
}

// IsAmortizing reports whether instalments are capped by the debt total
func (e *Entity) IsAmortizing() bool {
	return e.IsDebt && e.IsRenegotiated && e.Total() > 0
}

// SavingsGoal is a user-defined target bucket layered on the savings balance
type SavingsGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	CoverIndex    int     `json:"coverIndex"`
}

// Progress returns completion as a percentage capped at 100
func (g *SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// Occurrence is one dated appearance of an entity within the horizon
type Occurrence struct {
	Date       time.Time
	Multiplier float64
	// Amount is the nominal amount scaled by Multiplier
	Amount float64
}

// Event is an entity occurrence landing on a projected day
type Event struct {
	Entity
	Flow Flow `json:"flow"`
}

// DayAggregate holds the summed flows and contributing events of one date
type DayAggregate struct {
	Inflow     float64
	Outflow    float64
	Investment float64
	Events     []Event
}

// Point is one day of the projection
type Point struct {
	Date           Date    `json:"date"`
	Balance        float64 `json:"balance"`
	SavingsBalance float64 `json:"savingsBalance"`
	// DebtBalance is 0 or negative
	DebtBalance    float64 `json:"debtBalance"`
	Inflow         float64 `json:"inflow"`
	Outflow        float64 `json:"outflow"`
	InvestmentFlow float64 `json:"investmentFlow"`
	Events         []Event `json:"events"`
}

// HasEvents reports whether anything lands on the point's date
func (p *Point) HasEvents() bool {
	return len(p.Events) > 0
}
