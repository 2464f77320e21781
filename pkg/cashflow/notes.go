package cashflow

import "context"

// noteService implements NoteService
type noteService struct {
	client *Client
}

// Set stores the note for a date
func (s *noteService) Set(ctx context.Context, date Date, text string) error {
	if date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	return s.client.mutate(ctx, func(st *State) error {
		st.SetNote(date, text)
		return nil
	})
}

// Get returns the note for a date
func (s *noteService) Get(ctx context.Context, date Date) (string, error) {
	var text string
	s.client.read(func(st *State) {
		text = st.Note(date)
	})
	return text, nil
}

// Search returns matching notes, newest first
func (s *noteService) Search(ctx context.Context, term string) ([]Note, error) {
	var notes []Note
	s.client.read(func(st *State) {
		notes = st.SearchNotes(term)
	})
	return notes, nil
}
