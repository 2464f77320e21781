package cashflow

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// State is the user's full planning data. The projection only reads
// snapshots of it.
type State struct {
	Incomes        []Entity          `json:"incomes"`
	Expenses       []Entity          `json:"expenses"`
	Savings        []Entity          `json:"savings"`
	Goals          []SavingsGoal     `json:"savingsGoals"`
	InitialBalance float64           `json:"initialBalance"`
	InitialSavings float64           `json:"initialSavings"`
	Notes          map[string]string `json:"notes,omitempty"`
}

// NewState returns an empty state
func NewState() *State {
	return &State{
		Incomes:  []Entity{},
		Expenses: []Entity{},
		Savings:  []Entity{},
		Goals:    []SavingsGoal{},
		Notes:    map[string]string{},
	}
}

// Clone returns a deep copy so callers can hand out immutable snapshots
func (s *State) Clone() *State {
	c := &State{
		Incomes:        cloneEntities(s.Incomes),
		Expenses:       cloneEntities(s.Expenses),
		Savings:        cloneEntities(s.Savings),
		Goals:          append([]SavingsGoal{}, s.Goals...),
		InitialBalance: s.InitialBalance,
		InitialSavings: s.InitialSavings,
		Notes:          make(map[string]string, len(s.Notes)),
	}
	for k, v := range s.Notes {
		c.Notes[k] = v
	}
	return c
}

func cloneEntities(list []Entity) []Entity {
	out := make([]Entity, len(list))
	for i, e := range list {
		out[i] = e
		if e.TotalAmount != nil {
			v := *e.TotalAmount
			out[i].TotalAmount = &v
		}
		if e.AmountAlreadyPaid != nil {
			v := *e.AmountAlreadyPaid
			out[i].AmountAlreadyPaid = &v
		}
		if e.EndDate != nil {
			v := *e.EndDate
			out[i].EndDate = &v
		}
		if e.CustomDays != nil {
			out[i].CustomDays = append([]int{}, e.CustomDays...)
		}
	}
	return out
}

// Normalize stamps the kind discriminator on every entity from the list it
// lives in. Older payloads carry no kind.
func (s *State) Normalize() {
	for i := range s.Incomes {
		s.Incomes[i].Kind = KindIncome
	}
	for i := range s.Expenses {
		s.Expenses[i].Kind = kindFor(&s.Expenses[i], FlowOutflow)
	}
	for i := range s.Savings {
		s.Savings[i].Kind = KindSavings
	}
	if s.Incomes == nil {
		s.Incomes = []Entity{}
	}
	if s.Expenses == nil {
		s.Expenses = []Entity{}
	}
	if s.Savings == nil {
		s.Savings = []Entity{}
	}
	if s.Goals == nil {
		s.Goals = []SavingsGoal{}
	}
	if s.Notes == nil {
		s.Notes = map[string]string{}
	}
}

func (s *State) listFor(kind Kind) (*[]Entity, error) {
	switch kind {
	case KindIncome:
		return &s.Incomes, nil
	case KindExpense, KindDebt:
		return &s.Expenses, nil
	case KindSavings:
		return &s.Savings, nil
	}
	return nil, &ValidationError{Field: "kind", Message: "unknown entity kind", Value: kind}
}

// Entities returns the entities of one kind. Debts and expenses share a list
// and are told apart by IsDebt.
func (s *State) Entities(kind Kind) []Entity {
	var out []Entity
	switch kind {
	case KindIncome:
		out = append(out, s.Incomes...)
	case KindSavings:
		out = append(out, s.Savings...)
	case KindExpense, KindDebt:
		for _, e := range s.Expenses {
			if e.IsDebt == (kind == KindDebt) {
				out = append(out, e)
			}
		}
	}
	return out
}

// FindEntity looks an entity up by id across all lists
func (s *State) FindEntity(id string) (*Entity, bool) {
	for _, list := range []*[]Entity{&s.Incomes, &s.Expenses, &s.Savings} {
		for i := range *list {
			if (*list)[i].ID == id {
				return &(*list)[i], true
			}
		}
	}
	return nil, false
}

// AddEntity validates e, assigns an id when missing and appends it to the
// list matching kind
func (s *State) AddEntity(e Entity, kind Kind) (*Entity, error) {
	list, err := s.listFor(kind)
	if err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if _, exists := s.FindEntity(e.ID); exists {
		return nil, &ValidationError{EntityID: e.ID, Field: "id", Message: "duplicate id"}
	}
	if kind == KindDebt {
		e.IsDebt = true
	}
	e.Kind = kindFor(&e, flowForKind(kind))
	if err := validateEntity(&e); err != nil {
		return nil, err
	}

	*list = append(*list, e)
	return &(*list)[len(*list)-1], nil
}

// UpdateEntity replaces the entity with the same id, moving it to another
// list if its kind changed
func (s *State) UpdateEntity(e Entity) error {
	existing, ok := s.FindEntity(e.ID)
	if !ok {
		return ErrNotFound
	}

	kind := e.Kind
	if kind == "" {
		kind = existing.Kind
	}
	if kind == KindDebt {
		e.IsDebt = true
	}
	e.Kind = kindFor(&e, flowForKind(kind))
	if err := validateEntity(&e); err != nil {
		return err
	}

	target, err := s.listFor(kind)
	if err != nil {
		return err
	}
	for i := range *target {
		if (*target)[i].ID == e.ID {
			(*target)[i] = e
			return nil
		}
	}

	// kind changed lists
	if err := s.RemoveEntity(e.ID); err != nil {
		return err
	}
	*target = append(*target, e)
	return nil
}

// RemoveEntity deletes the entity with id from whichever list holds it
func (s *State) RemoveEntity(id string) error {
	for _, list := range []*[]Entity{&s.Incomes, &s.Expenses, &s.Savings} {
		for i := range *list {
			if (*list)[i].ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
	}
	return ErrNotFound
}

func flowForKind(kind Kind) Flow {
	switch kind {
	case KindIncome:
		return FlowInflow
	case KindSavings:
		return FlowInvestment
	}
	return FlowOutflow
}

// Note is a free-form text attached to a calendar date
type Note struct {
	Date    string `json:"date"`
	Text    string `json:"text"`
	Title   string `json:"title"`
	Preview string `json:"preview"`
}

// SetNote stores text for date; blank text removes the note
func (s *State) SetNote(date Date, text string) {
	if s.Notes == nil {
		s.Notes = map[string]string{}
	}
	if strings.TrimSpace(text) == "" {
		delete(s.Notes, date.Key())
		return
	}
	s.Notes[date.Key()] = text
}

// Note returns the note for date
func (s *State) Note(date Date) string {
	return s.Notes[date.Key()]
}

// SearchNotes returns non-blank notes containing term (case-insensitive),
// newest date first
func (s *State) SearchNotes(term string) []Note {
	term = strings.ToLower(term)

	var notes []Note
	for date, text := range s.Notes {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(text), term) {
			continue
		}

		lines := strings.Split(text, "\n")
		notes = append(notes, Note{
			Date:    date,
			Text:    text,
			Title:   lines[0],
			Preview: strings.Join(lines[1:], " "),
		})
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Date > notes[j].Date
	})
	return notes
}
