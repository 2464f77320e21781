package cashflow

import (
	"context"
	"io"

	"github.com/emersion/go-ical"
)

// Store persists the application state locally
type Store interface {
	// Load returns the saved state, or ErrNotFound when nothing was saved yet
	Load(ctx context.Context) (*State, error)

	// Save replaces the saved state
	Save(ctx context.Context, state *State) error
}

// Publisher pushes calendar events to a remote calendar
type Publisher interface {
	// Publish writes each event and returns how many were accepted
	Publish(ctx context.Context, events []*ical.Event) (int, error)

	// UIDs lists the uids of the events already on the calendar
	UIDs(ctx context.Context) ([]string, error)

	// Remove deletes the event with uid
	Remove(ctx context.Context, uid string) error
}

// EntityService handles incomes, expenses, debts and savings contributions
type EntityService interface {
	// List returns the entities of one kind. Debts are the expenses flagged IsDebt.
	List(ctx context.Context, kind Kind) ([]Entity, error)

	// Get retrieves a single entity by ID from any list
	Get(ctx context.Context, id string) (*Entity, error)

	// Add validates and stores a new entity, assigning an ID when empty
	Add(ctx context.Context, entity Entity, kind Kind) (*Entity, error)

	// Update replaces an existing entity
	Update(ctx context.Context, entity Entity) error

	// Remove deletes an entity from whichever list holds it
	Remove(ctx context.Context, id string) error

	// SetBalances sets the opening cash and savings balances
	SetBalances(ctx context.Context, initialBalance, initialSavings float64) error
}

// GoalService handles savings goals
type GoalService interface {
	// List returns all goals
	List(ctx context.Context) ([]SavingsGoal, error)

	// Add creates a goal
	Add(ctx context.Context, name string, target float64, cover int) (*SavingsGoal, error)

	// Update changes a goal's name, target and cover
	Update(ctx context.Context, id, name string, target float64, cover int) error

	// Remove deletes a goal
	Remove(ctx context.Context, id string) error

	// Deposit allocates free savings to a goal
	Deposit(ctx context.Context, id string, amount float64) error

	// Withdraw releases part of a goal's balance
	Withdraw(ctx context.Context, id string, amount float64) error

	// Free returns the savings not allocated to any goal
	Free(ctx context.Context) (float64, error)
}

// NoteService handles the per-day notes
type NoteService interface {
	// Set stores the note for a date; blank text deletes it
	Set(ctx context.Context, date Date, text string) error

	// Get returns the note for a date, empty when none
	Get(ctx context.Context, date Date) (string, error)

	// Search returns notes containing term, newest first
	Search(ctx context.Context, term string) ([]Note, error)
}

// ProjectionService runs the projection pipeline over the current state
type ProjectionService interface {
	// Generate returns horizonDays+1 points starting today
	Generate(ctx context.Context, horizonDays int) ([]Point, error)

	// Summary returns the dashboard figures for the projection
	Summary(ctx context.Context, horizonDays int, stress float64) (*Summary, error)

	// Runway returns the baseline and shocked runway derived from the first 30 days
	Runway(ctx context.Context, horizonDays int, shock float64) (*RunwayImpact, error)

	// DebtPlan returns the debt portfolio plan
	DebtPlan(ctx context.Context) (*DebtPlan, error)

	// ExportCSV writes the projection as CSV
	ExportCSV(ctx context.Context, w io.Writer, horizonDays int) error

	// ExportICS writes the projection as an iCalendar document
	ExportICS(ctx context.Context, w io.Writer, horizonDays int) error
}

// SyncService mirrors the state to the remote sync proxy
type SyncService interface {
	// Push uploads state for the configured user
	Push(ctx context.Context, state *State) error

	// Pull downloads the user's state, or ErrNotFound when the remote has none
	Pull(ctx context.Context) (*State, error)
}

// InsightService asks the insights service to review the plan
type InsightService interface {
	// Generate returns the report, or a fallback report when the service fails
	Generate(ctx context.Context, horizonDays int) (*InsightReport, error)
}

// CalendarService publishes projected events to CalDAV
type CalendarService interface {
	// Publish pushes the events of the next horizonDays and returns how many were
	// written. Events published earlier for today or later that are no longer
	// projected are removed.
	Publish(ctx context.Context, horizonDays int) (int, error)
}
