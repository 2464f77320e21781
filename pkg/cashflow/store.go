package cashflow

import (
	"context"
	"encoding/json"

	"github.com/eshaffer321/cashflow-go/internal/storage"
	"github.com/pkg/errors"
)

// historyKeep is how many previous states the SQLite store retains
const historyKeep = 50

// sqliteStore keeps the state as a JSON document in the local database
type sqliteStore struct {
	db *storage.Storage
}

// NewSQLiteStore opens the SQLite database at path as a Store. The caller
// closes it via the returned close function.
func NewSQLiteStore(path string) (Store, func() error, error) {
	db, err := storage.New(path)
	if err != nil {
		return nil, nil, err
	}
	return &sqliteStore{db: db}, db.Close, nil
}

// Load decodes the saved document
func (s *sqliteStore) Load(ctx context.Context) (*State, error) {
	data, err := s.db.LoadState(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoState) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errors.Wrap(err, "failed to decode saved state")
	}
	state.Normalize()
	return state, nil
}

// Save encodes and stores the state
func (s *sqliteStore) Save(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to encode state")
	}
	if err := s.db.SaveState(ctx, data); err != nil {
		return err
	}
	_, err = s.db.PruneHistory(ctx, historyKeep)
	return err
}
